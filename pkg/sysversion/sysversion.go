package sysversion

import (
	"context"

	"github.com/fox-one/pkg/property"
)

const (
	// SysVersionKey schema version property key
	SysVersionKey = "sysversion"
	// Current schema version written by migrate
	Current int64 = 1
)

func ReadSysVersion(ctx context.Context, property property.Store) (int64, error) {
	v, err := property.Get(ctx, SysVersionKey)
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

func WriteSysVersion(ctx context.Context, store property.Store, version int64) error {
	return store.Save(ctx, SysVersionKey, version)
}
