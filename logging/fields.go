package logging

import (
	"time"

	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Error constructs a field that lazily stores err.Error() under the key "error".
func Error(err error) zap.Field {
	return zap.Error(err)
}

// String constructs a field with the given key and value.
func String(key, val string) zap.Field {
	return zap.String(key, val)
}

func Strings(key string, val []string) zap.Field {
	return zap.Strings(key, val)
}

func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

func Uint16(key string, val uint16) zap.Field {
	return zap.Uint16(key, val)
}

func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// BigUint logs a num.Uint as its decimal string.
func BigUint(key string, val *num.Uint) zap.Field {
	if val == nil {
		return zap.String(key, "nil")
	}
	return zap.String(key, val.String())
}

func Decimal(key string, val num.Decimal) zap.Field {
	return zap.String(key, val.String())
}

func Address(key string, val ethcmn.Address) zap.Field {
	return zap.String(key, val.Hex())
}

func PositionID(id uint64) zap.Field {
	return zap.Uint64("position-id", id)
}

func Time(key string, val time.Time) zap.Field {
	return zap.Time(key, val)
}

func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}
