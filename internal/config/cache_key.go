package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// FormPayloadKey returns the cache key for a form's public payload, keyed by handle.
func (r *CacheKeyStruct) FormPayloadKey(handle string) string {
	return fmt.Sprintf("form:%s:payload", handle)
}

var CacheKey = NewCacheKeyStruct()
