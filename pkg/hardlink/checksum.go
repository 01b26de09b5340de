package hardlink

import (
	"encoding/hex"
	"hash/crc64"
	"io"
	"os"
)

// CRC64NVME polynomial
var crc64NVMETable = crc64.MakeTable(0x9a6c9329ac4bc9b5)

func calculateFileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := crc64.New(crc64NVMETable)
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
