// Package assembly reads reflected assembly descriptions ("bundles") from
// disk. Bundles are authored as TOML and packed to msgpack for fast loading;
// packed bundles are also kept in a content-addressed disk cache.
package assembly

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"codedom/internal/reflection"
)

// Format identifies the encoding of a bundle file.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".mp", ".msgpack":
		return FormatMsgpack
	default:
		return FormatUnknown
	}
}

// Digest is the SHA-256 of a bundle's raw bytes.
type Digest [sha256.Size]byte

// DigestOf hashes raw bundle contents.
func DigestOf(data []byte) Digest {
	return sha256.Sum256(data)
}

// Decode parses a bundle in the given format.
func Decode(data []byte, format Format) (*reflection.AssemblyDescriptor, error) {
	var asm reflection.AssemblyDescriptor
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&asm); err != nil {
			return nil, fmt.Errorf("decode toml bundle: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &asm); err != nil {
			return nil, fmt.Errorf("decode msgpack bundle: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported bundle format %q", format)
	}
	if strings.TrimSpace(asm.Name) == "" {
		return nil, fmt.Errorf("bundle has no assembly name")
	}
	return &asm, nil
}

// ReadFile reads and decodes one bundle. The format follows the extension.
func ReadFile(path string) (*reflection.AssemblyDescriptor, Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Digest{}, err
	}
	asm, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, Digest{}, fmt.Errorf("%s: %w", path, err)
	}
	return asm, DigestOf(data), nil
}

// EncodeMsgpack writes asm in the packed format.
func EncodeMsgpack(w io.Writer, asm *reflection.AssemblyDescriptor) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(asm)
}

// EncodeTOML writes asm in the authoring format.
func EncodeTOML(w io.Writer, asm *reflection.AssemblyDescriptor) error {
	return toml.NewEncoder(w).Encode(asm)
}
