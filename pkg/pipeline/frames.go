package pipeline

import "iter"

// Retime rewrites frame timestamps as index*step, so a source that counts
// frames can feed an encoder running on a finer timebase. A step of 1
// returns frames unchanged.
func Retime(frames iter.Seq[Frame], step int64) iter.Seq[Frame] {
	if step == 1 {
		return frames
	}
	return func(yield func(Frame) bool) {
		var i int64
		for f := range frames {
			f.PTS = i * step
			if !yield(f) {
				return
			}
			i++
		}
	}
}

// TicksPerFrame returns how many timebase units one frame lasts at the
// given rate. A zero timebase counts frames. The result is at least 1.
func TicksPerFrame(fpsNum, fpsDen, tbNum, tbDen uint32) int64 {
	if tbNum == 0 || tbDen == 0 || fpsNum == 0 {
		return 1
	}
	ticks := (uint64(tbDen)*uint64(fpsDen) + uint64(tbNum)*uint64(fpsNum)/2) / (uint64(tbNum) * uint64(fpsNum))
	if ticks == 0 {
		return 1
	}
	return int64(ticks)
}
