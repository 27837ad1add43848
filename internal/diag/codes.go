package diag

import "fmt"

// Code is a stable numeric identifier of a diagnostic kind.
type Code uint16

const (
	UnknownCode Code = 0

	// Bundle loading
	BundleReadFailed    Code = 1001
	BundleDecodeFailed  Code = 1002
	BundleDuplicateType Code = 1003
	BundleEmptyName     Code = 1004

	// Reflection bridge
	BridgeStaleGenericParam Code = 2001
	BridgeUnsupportedType   Code = 2002
	BridgeUnresolvedBase    Code = 2003

	// Symbol tables
	TableNameCollision Code = 3001
	TableDuplicateDecl Code = 3002

	// Resolver
	ResolveUnknownIdentifier Code = 4001
	ResolveNoSourceRegion    Code = 4002

	// Workspace
	WorkspaceManifest        Code = 5001
	WorkspaceMissingFile     Code = 5002
	WorkspaceUnknownLanguage Code = 5003
	WorkspaceInvalidUnit     Code = 5004
	WorkspaceUnresolvedType  Code = 5005
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown diagnostic",
	BundleReadFailed:         "Bundle could not be read",
	BundleDecodeFailed:       "Bundle could not be decoded",
	BundleDuplicateType:      "Type declared twice in one bundle",
	BundleEmptyName:          "Bundle entry without a name",
	BridgeStaleGenericParam:  "Generic parameter does not match its owner",
	BridgeUnsupportedType:    "Unsupported external type construct",
	BridgeUnresolvedBase:     "Base type not found in referenced tables",
	TableNameCollision:       "Qualified name declared in several referenced tables",
	TableDuplicateDecl:       "Qualified name declared twice in one table",
	ResolveUnknownIdentifier: "Identifier could not be resolved",
	ResolveNoSourceRegion:    "No source location available",
	WorkspaceManifest:        "Invalid workspace manifest",
	WorkspaceMissingFile:     "Workspace file is missing",
	WorkspaceUnknownLanguage: "Unknown project language",
	WorkspaceInvalidUnit:     "Source unit could not be decoded",
	WorkspaceUnresolvedType:  "Type name in a source unit not found",
}

// ID returns the short stable form, e.g. "BRG2001".
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("BND%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("BRG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TBL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("WSP%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
