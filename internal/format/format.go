// Package format converts engine-native cell values into stable display
// strings. Formatting is total: a value the package does not recognize
// degrades to an inline error string instead of failing the fetch, which
// keeps row and column alignment intact.
package format

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	duckdb "github.com/marcboeker/go-duckdb/v2"
)

// TimeUnit is the resolution of a temporal column.
type TimeUnit int

const (
	UnitSecond TimeUnit = iota
	UnitMillisecond
	UnitMicrosecond
	UnitNanosecond
)

const (
	invalidTime    = "Invalid Time"
	secondsPerDay  = 86400
	maxBlobDisplay = 25
)

var compactReplacer = strings.NewReplacer(" ", "", "\n", "")

// Cell renders one scanned value. typeName is the column's engine type name
// (already truncated at any parameter list) and is only consulted to
// disambiguate temporal values, which all scan as time.Time.
func Cell(typeName string, value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case *big.Int:
		if v == nil {
			return "NULL"
		}
		return v.String()
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case duckdb.Decimal:
		return Decimal(v)
	case string:
		return v
	case []byte:
		return Blob(v)
	case time.Time:
		return temporal(typeName, v)
	case duckdb.Interval:
		return "Interval"
	case []any:
		return compactDump(v)
	case map[string]any:
		return compactDump(v)
	case duckdb.Map:
		return compactDump(v)
	case map[any]any:
		return compactDump(v)
	default:
		return fmt.Sprintf("Error: unsupported value type %T", value)
	}
}

// Blob base64-encodes binary data, truncating long encodings so a single
// cell cannot flood the display.
func Blob(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if len(encoded) > maxBlobDisplay {
		return encoded[:maxBlobDisplay] + "..."
	}
	return encoded
}

// Decimal renders a fixed-point value exactly from its unscaled integer,
// without a float round trip.
func Decimal(d duckdb.Decimal) string {
	if d.Value == nil {
		return "NULL"
	}
	if d.Scale == 0 {
		return d.Value.String()
	}
	unscaled := new(big.Int).Abs(d.Value)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
	whole, frac := new(big.Int).QuoRem(unscaled, divisor, new(big.Int))

	sign := ""
	if d.Value.Sign() < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%0*s", sign, whole.String(), int(d.Scale), frac.String())
}

// Date renders a signed day offset from 1970-01-01 as YYYY-MM-DD.
// Negative offsets are pre-epoch dates.
func Date(days int32) string {
	return time.Unix(int64(days)*secondsPerDay, 0).UTC().Format("2006-01-02")
}

// Timestamp renders an epoch offset in the given unit as
// YYYY-MM-DDTHH:MM:SS[.fraction]+00:00 with a fraction width of 3/6/9
// digits for milli/micro/nanoseconds and none for seconds. Values whose
// year falls outside 0000-9999 render as the Invalid Time sentinel.
func Timestamp(unit TimeUnit, value int64) string {
	seconds, nanos := splitEpoch(unit, value)
	t := time.Unix(seconds, nanos).UTC()
	if t.Year() < 0 || t.Year() > 9999 {
		return invalidTime
	}
	return t.Format("2006-01-02T15:04:05") + fraction(unit, nanos) + "+00:00"
}

// TimeOfDay renders an offset since midnight in the given unit as
// HH:MM:SS[.fraction] with the same fraction widths as Timestamp. Offsets
// outside a single day render as the Invalid Time sentinel.
func TimeOfDay(unit TimeUnit, value int64) string {
	seconds, nanos := splitEpoch(unit, value)
	if seconds < 0 || seconds >= secondsPerDay {
		return invalidTime
	}
	hours := seconds / 3600
	minutes := seconds % 3600 / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs) + fraction(unit, nanos)
}

// splitEpoch divides a raw temporal value into whole seconds and a
// non-negative nanosecond remainder.
func splitEpoch(unit TimeUnit, value int64) (seconds, nanos int64) {
	var perSecond, toNanos int64
	switch unit {
	case UnitSecond:
		return value, 0
	case UnitMillisecond:
		perSecond, toNanos = 1_000, 1_000_000
	case UnitMicrosecond:
		perSecond, toNanos = 1_000_000, 1_000
	default:
		perSecond, toNanos = 1_000_000_000, 1
	}
	seconds = value / perSecond
	remainder := value % perSecond
	if remainder < 0 {
		remainder += perSecond
		seconds--
	}
	return seconds, remainder * toNanos
}

func fraction(unit TimeUnit, nanos int64) string {
	switch unit {
	case UnitMillisecond:
		return fmt.Sprintf(".%03d", nanos/1_000_000)
	case UnitMicrosecond:
		return fmt.Sprintf(".%06d", nanos/1_000)
	case UnitNanosecond:
		return fmt.Sprintf(".%09d", nanos)
	default:
		return ""
	}
}

// temporal routes a scanned time.Time through the unit helpers so column
// resolution, not the host clock, decides the rendering.
func temporal(typeName string, t time.Time) string {
	utc := t.UTC()
	switch typeName {
	case "DATE":
		return Date(int32(floorDiv(utc.Unix(), secondsPerDay)))
	case "TIME", "TIMETZ":
		midnight := int64(utc.Hour())*3600 + int64(utc.Minute())*60 + int64(utc.Second())
		return TimeOfDay(UnitMicrosecond, midnight*1_000_000+int64(utc.Nanosecond())/1_000)
	case "TIMESTAMP_S":
		return Timestamp(UnitSecond, utc.Unix())
	case "TIMESTAMP_MS":
		return Timestamp(UnitMillisecond, utc.UnixMilli())
	case "TIMESTAMP_NS":
		return Timestamp(UnitNanosecond, utc.UnixNano())
	default:
		// TIMESTAMP and TIMESTAMPTZ carry microsecond resolution.
		return Timestamp(UnitMicrosecond, utc.UnixMicro())
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// compactDump renders a nested value deterministically on a single line.
// fmt prints map keys in sorted order, so identical input always yields
// identical output.
func compactDump(value any) string {
	return compactReplacer.Replace(fmt.Sprintf("%v", value))
}
