package utils

import (
	"os"
	"path"

	"github.com/google/uuid"
)

func GenerateUuid() string {
	uuid1, err := uuid.NewUUID()
	if err != nil {
		panic("Failed to generate UUID")
	}

	return uuid1.String()
}

// GetItemsFromList returns a paginated window of the provided list.
func GetItemsFromList[T any](list []T, limit int, offset int) []T {
	if offset >= len(list) || offset < 0 {
		return make([]T, 0)
	}

	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return list[offset:end]
}

func IsDirectoryWritable(directory string) bool {
	probeFile := path.Join(directory, ".probe")

	if err := os.WriteFile(probeFile, []byte{}, 0644); err != nil {
		return false
	}

	_ = os.Remove(probeFile)

	return true
}
