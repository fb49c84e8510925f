package images

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"gocv.io/x/gocv"
)

// MatChecksum returns a digest of a Mat's size, type and pixels. Two Mats
// with the same checksum hold the same frame.
//
// Arguments:
//   - mat: The Mat to hash.
//
// Returns:
//   - A hex-encoded SHA-256 digest, or "empty" for an empty Mat.
func MatChecksum(mat gocv.Mat) string {
	if mat.Empty() {
		return "empty"
	}

	hash := sha256.New()
	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:], uint32(mat.Rows()))
	binary.LittleEndian.PutUint32(header[4:], uint32(mat.Cols()))
	binary.LittleEndian.PutUint32(header[8:], uint32(mat.Type()))
	hash.Write(header[:])

	data, err := mat.DataPtrUint8()
	if err != nil {
		// Non-continuous Mats expose no data pointer.
		clone := mat.Clone()
		defer clone.Close()
		data, _ = clone.DataPtrUint8()
	}
	hash.Write(data)
	return fmt.Sprintf("%x", hash.Sum(nil))
}
