//go:build !unix && !windows

package arena

import "github.com/hupe1980/tagring/internal/mem"

func mapAnon(size int) ([]byte, func([]byte) error, error) {
	return mem.AllocAligned(size), nil, nil
}
