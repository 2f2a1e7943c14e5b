package playback

import "fmt"

const (
	VolumeStep = 5
	MaxVolume  = 100
)

// TotalFrames is the number of whole frame records in a file of size bytes.
func TotalFrames(size int64, frameBytes int) uint64 {
	if size <= 0 || frameBytes <= 0 {
		return 0
	}
	return uint64(size / int64(frameBytes))
}

// StepVolume moves v by delta steps of VolumeStep, clamped to 0..MaxVolume.
func StepVolume(v, delta int) int {
	v += delta * VolumeStep
	switch {
	case v < 0:
		return 0
	case v > MaxVolume:
		return MaxVolume
	}
	return v
}

// FormatVolume renders a volume for the status panel.
func FormatVolume(v int) string { return fmt.Sprintf("%d%%", v) }

// FormatTimecode renders "elapsed / total". Both sides use h:mm:ss once the
// total reaches an hour, m:ss otherwise.
func FormatTimecode(current, total uint64, fps int) string {
	if fps <= 0 {
		return "0:00 / 0:00"
	}
	cur := current / uint64(fps)
	tot := total / uint64(fps)
	hours := tot >= 3600
	return clock(cur, hours) + " / " + clock(tot, hours)
}

func clock(sec uint64, hours bool) string {
	if hours {
		return fmt.Sprintf("%d:%02d:%02d", sec/3600, sec/60%60, sec%60)
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
