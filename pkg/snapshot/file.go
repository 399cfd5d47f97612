package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/golang/snappy"
)

// File format: [magic:4][version:1][DataLen:4][Data:N][Checksum:4]
// where Data is the snappy-compressed JSON document and the checksum is
// CRC32 (IEEE) over the compressed bytes.
var fileMagic = [4]byte{'v', 'f', 'g', 's'}

const fileVersion = 1

// maxDataLen caps the compressed payload so a corrupt length header cannot
// drive a multi-gigabyte allocation before the checksum is ever verified.
const maxDataLen = 256 << 20

// Write stores the document at path.
func Write(path string, doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	compressed := snappy.Encode(nil, raw)
	if len(compressed) > maxDataLen {
		return fmt.Errorf("snapshot data length %d exceeds limit %d", len(compressed), maxDataLen)
	}

	var buf bytes.Buffer
	buf.Write(fileMagic[:])
	buf.WriteByte(fileVersion)
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	buf.Write(compressed)
	if err := binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Read loads a document from path, verifying the checksum.
func Read(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (*Document, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if !bytes.Equal(header[:4], fileMagic[:]) {
		return nil, fmt.Errorf("not a graph snapshot file")
	}
	if header[4] != fileVersion {
		return nil, fmt.Errorf("unsupported snapshot file version %d", header[4])
	}

	var dataLen uint32
	if err := binary.Read(r, binary.BigEndian, &dataLen); err != nil {
		return nil, fmt.Errorf("read snapshot length: %w", err)
	}
	if dataLen > maxDataLen {
		return nil, fmt.Errorf("snapshot data length %d exceeds limit %d", dataLen, maxDataLen)
	}
	compressed := make([]byte, dataLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("read snapshot data: %w", err)
	}

	var checksum uint32
	if err := binary.Read(r, binary.BigEndian, &checksum); err != nil {
		return nil, fmt.Errorf("read snapshot checksum: %w", err)
	}
	if got := crc32.ChecksumIEEE(compressed); got != checksum {
		return nil, fmt.Errorf("snapshot checksum mismatch: got %08x, want %08x", got, checksum)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &doc, nil
}
