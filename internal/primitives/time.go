package primitives

import "time"

// Sentinel is the value emitted whenever a timestamp is absent, zero,
// or out of the representable range, per the data model's timestamp
// invariant: every emitted datetime is ISO-8601 UTC with millisecond
// precision, and 1970-01-01T00:00:00.000Z stands in for "no time".
const Sentinel = "1970-01-01T00:00:00.000Z"

const isoLayout = "2006-01-02T15:04:05.000Z"

func iso(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// FiletimeToISO converts a Windows FILETIME (100ns ticks since
// 1601-01-01) to an ISO-8601 UTC string.
func FiletimeToISO(ft uint64) string {
	if ft == 0 {
		return Sentinel
	}
	const filetimeToUnixDiff = 116444736000000000
	ticks := int64(ft) - filetimeToUnixDiff
	secs := ticks / 10_000_000
	ms := (ticks % 10_000_000) / 10_000
	t := time.Unix(secs, ms*int64(time.Millisecond)).UTC()
	if t.Year() < 1601 || t.Year() > 9999 {
		return Sentinel
	}
	return iso(t)
}

// FiletimeOf is the inverse conversion used by the round-trip property
// test: seconds-since-Unix-epoch plus a millisecond remainder to a raw
// FILETIME tick count.
func FiletimeOf(t time.Time) uint64 {
	const filetimeToUnixDiff = 116444736000000000
	t = t.UTC()
	ticks := t.Unix()*10_000_000 + int64(t.Nanosecond()/1_000_000)*10_000 + filetimeToUnixDiff
	if ticks < 0 {
		return 0
	}
	return uint64(ticks)
}

// CocoaToISO converts a Mac Absolute Time (seconds since 2001-01-01)
// to ISO-8601 UTC.
func CocoaToISO(secs float64) string {
	if secs == 0 {
		return Sentinel
	}
	const cocoaToUnixDiff = 978307200
	unix := secs + cocoaToUnixDiff
	return fromUnixFloat(unix)
}

// HFSPlusToISO converts an HFS+ timestamp (seconds since 1904-01-01)
// to ISO-8601 UTC.
func HFSPlusToISO(secs uint32) string {
	if secs == 0 {
		return Sentinel
	}
	const hfsToUnixDiff = 2082844800
	unix := int64(secs) - hfsToUnixDiff
	return iso(time.Unix(unix, 0))
}

// OLEAutomationToISO converts an OLE Automation date (days since
// 1899-12-30, including a fractional day) to ISO-8601 UTC.
func OLEAutomationToISO(days float64) string {
	if days == 0 {
		return Sentinel
	}
	const oleEpochOffsetDays = 25569
	unix := (days - oleEpochOffsetDays) * 86400
	return fromUnixFloat(unix)
}

// WebKitToISO converts a WebKit timestamp (microseconds since
// 1601-01-01) to ISO-8601 UTC.
func WebKitToISO(us int64) string {
	if us == 0 {
		return Sentinel
	}
	const webkitToUnixDiffSecs = 11644473600
	unixSecs := us/1_000_000 - webkitToUnixDiffSecs
	unixNanoRemainder := (us % 1_000_000) * 1000
	return iso(time.Unix(unixSecs, unixNanoRemainder))
}

// FATToISO decodes a packed 16-bit FAT date and 16-bit FAT time
// (seconds since 1980-01-01, 2-second resolution).
func FATToISO(fatDate, fatTime uint16) string {
	if fatDate == 0 {
		return Sentinel
	}
	year := 1980 + int(fatDate>>9)
	month := int((fatDate >> 5) & 0xF)
	day := int(fatDate & 0x1F)
	hour := int(fatTime >> 11)
	minute := int((fatTime >> 5) & 0x3F)
	second := int(fatTime&0x1F) * 2
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	return iso(t)
}

// UnixToISO converts Unix epoch seconds plus a microsecond remainder
// (the resolution utmp/wtmp/btmp timestamps carry) to ISO-8601 UTC.
func UnixToISO(secs int64, micros int32) string {
	if secs == 0 {
		return Sentinel
	}
	return iso(time.Unix(secs, int64(micros)*1000).UTC())
}

func fromUnixFloat(unixSecs float64) string {
	whole := int64(unixSecs)
	frac := unixSecs - float64(whole)
	nanos := int64(frac * 1e9)
	t := time.Unix(whole, nanos).UTC()
	if t.Year() < 1601 || t.Year() > 9999 {
		return Sentinel
	}
	return iso(t)
}
