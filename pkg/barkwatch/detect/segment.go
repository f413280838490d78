package detect

import "time"

// BarkEvent is one bounded cluster of validated peaks, treated as a single
// vocalization episode. Immutable once built.
type BarkEvent struct {
	SourceID    string
	StartSample int
	EndSample   int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	NumBarks    int
	// Date is the calendar date of StartTime, at midnight UTC.
	Date time.Time
}

// Segment merges validated peak positions into bounded events using a
// greedy forward walk. Output is ordered by ascending StartSample and
// events never share peaks.
//
// Merging measures each peak's distance from the *first* peak of the
// current run, not from the previous one: a run never stretches more than
// maxInterval from its opening peak, even when consecutive peaks are each
// closer together than that. This matches the historical log format;
// chaining nearest neighbors instead would move event boundaries on
// existing data.
//
// EndSample reaches a full maxInterval past the last merged peak and is
// deliberately not clipped to the recording length; consumers must tolerate
// an end time past the end of the recording.
func Segment(accepted []int, sampleRate int, maxInterval float64, sourceID string, conv Convention) ([]BarkEvent, error) {
	if len(accepted) == 0 {
		return nil, nil
	}

	span := int(maxInterval * float64(sampleRate))
	var events []BarkEvent

	for i := 0; i < len(accepted); {
		j := i + 1
		for j < len(accepted) && accepted[j]-accepted[i] < span {
			j++
		}

		start := accepted[i]
		end := accepted[j-1] + span

		startTime, err := ResolveTime(sourceID, start, sampleRate, conv)
		if err != nil {
			return nil, err
		}
		endTime, err := ResolveTime(sourceID, end, sampleRate, conv)
		if err != nil {
			return nil, err
		}

		events = append(events, BarkEvent{
			SourceID:    sourceID,
			StartSample: start,
			EndSample:   end,
			StartTime:   startTime,
			EndTime:     endTime,
			Duration:    endTime.Sub(startTime),
			NumBarks:    j - i,
			Date:        startTime.Truncate(24 * time.Hour),
		})
		i = j
	}
	return events, nil
}
