package detect

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Convention names how a recording's filename stem encodes its absolute
// wall-clock time. Each variant binds a parse layout to its correction, so
// supporting a new camera means adding one enum value and extending the
// switch in base.
type Convention int

const (
	// ConventionTimestamp marks sources whose stem is a compact numeric
	// timestamp of the recording start, e.g. "20240115083000.wav".
	ConventionTimestamp Convention = iota
	// ConventionTimestampEnd marks sources that stamp the *end* of the
	// hour-long recording instead; the start is one hour earlier.
	ConventionTimestampEnd
)

// stemLayout is the compact timestamp layout the cameras write.
const stemLayout = "20060102150405"

func (c Convention) String() string {
	switch c {
	case ConventionTimestamp:
		return "timestamp"
	case ConventionTimestampEnd:
		return "timestamp-end"
	default:
		return fmt.Sprintf("convention(%d)", int(c))
	}
}

// ParseConvention maps a convention name (as used in flags and config) to
// its enum value.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "timestamp":
		return ConventionTimestamp, nil
	case "timestamp-end":
		return ConventionTimestampEnd, nil
	default:
		return 0, fmt.Errorf("unknown recording convention %q", s)
	}
}

// TimestampParseError reports a source identifier whose stem does not match
// the layout its convention expects. It always propagates to the caller;
// defaulting the time silently would corrupt event ordering and date
// bucketing downstream.
type TimestampParseError struct {
	SourceID   string
	Convention Convention
	Err        error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("cannot parse recording time from %q (convention %s): %v",
		e.SourceID, e.Convention, e.Err)
}

func (e *TimestampParseError) Unwrap() error { return e.Err }

// base parses the filename stem and applies the convention's correction.
// Stems carry no zone information; they are interpreted as UTC so runs are
// reproducible across hosts.
func (c Convention) base(sourceID string) (time.Time, error) {
	name := filepath.Base(sourceID)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	t, err := time.Parse(stemLayout, stem)
	if err != nil {
		return time.Time{}, &TimestampParseError{SourceID: sourceID, Convention: c, Err: err}
	}

	switch c {
	case ConventionTimestamp:
		return t, nil
	case ConventionTimestampEnd:
		return t.Add(-time.Hour), nil
	default:
		return time.Time{}, &TimestampParseError{
			SourceID:   sourceID,
			Convention: c,
			Err:        fmt.Errorf("unhandled convention"),
		}
	}
}

// ResolveTime maps a sample offset inside the recording named by sourceID
// to an absolute wall-clock time. The offset is truncated to whole seconds
// before it is added to the recording's base time.
func ResolveTime(sourceID string, samplePos, sampleRate int, conv Convention) (time.Time, error) {
	base, err := conv.base(sourceID)
	if err != nil {
		return time.Time{}, err
	}
	return base.Add(time.Duration(samplePos/sampleRate) * time.Second), nil
}
