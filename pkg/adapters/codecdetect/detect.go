// Package codecdetect inspects encoded output: raw H.264 elementary
// streams and MP4 files.
package codecdetect

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/x264go/pkg/ports"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecAV1     Codec = "av1"
	CodecHEVC    Codec = "hevc"
	CodecUnknown Codec = "unknown"
)

// Container is the file layout around the coded video.
type Container string

const (
	ContainerH264 Container = "h264" // Annex B elementary stream
	ContainerMP4  Container = "mp4"
)

// ErrUnknownFormat is returned for data that is neither an MP4 file nor
// an Annex B stream.
var ErrUnknownFormat = errors.New("unrecognized stream format")

// Info describes an encoded file.
type Info struct {
	Container Container
	Codec     Codec
	Width     int
	Height    int
	Profile   uint32
	Level     uint32
	Frames    int
	Keyframes int
}

// DetectFromFile inspects the file at path.
func DetectFromFile(fs ports.FileSystem, path string) (Info, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("read file: %w", err)
	}
	return DetectFromBytes(data)
}

// DetectFromBytes inspects an MP4 file or an Annex B stream held in memory.
func DetectFromBytes(data []byte) (Info, error) {
	if isMP4(data) {
		return DetectFromReader(bytes.NewReader(data))
	}
	if bytes.HasPrefix(data, []byte{0, 0, 1}) || bytes.HasPrefix(data, []byte{0, 0, 0, 1}) {
		return detectAnnexB(data)
	}
	return Info{}, ErrUnknownFormat
}

// DetectFromReader inspects an MP4 file.
func DetectFromReader(reader io.ReadSeeker) (Info, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Info{}, fmt.Errorf("decode mp4: %w", err)
	}

	// Reset reader position for subsequent reads
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return Info{}, fmt.Errorf("seek: %w", err)
	}

	return detectFromMP4File(mp4File)
}

func isMP4(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	switch string(data[4:8]) {
	case "ftyp", "styp", "moov":
		return true
	}
	return false
}

// detectAnnexB counts access units by their first slice: a slice whose
// first_mb_in_slice is zero starts a new picture.
func detectAnnexB(data []byte) (Info, error) {
	info := Info{Container: ContainerH264, Codec: CodecUnknown}
	for _, nalu := range avc.ExtractNalusFromByteStream(data) {
		if len(nalu) < 2 {
			continue
		}
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_SPS:
			if info.Codec == CodecH264 {
				continue
			}
			sps, err := avc.ParseSPSNALUnit(nalu, false)
			if err != nil {
				return info, fmt.Errorf("parse sps: %w", err)
			}
			info.Codec = CodecH264
			info.Width, info.Height = int(sps.Width), int(sps.Height)
			info.Profile, info.Level = sps.Profile, sps.Level
		case avc.NALU_IDR:
			if firstSlice(nalu) {
				info.Frames++
				info.Keyframes++
			}
		case avc.NALU_NON_IDR:
			if firstSlice(nalu) {
				info.Frames++
			}
		}
	}
	if info.Codec != CodecH264 {
		return info, fmt.Errorf("no sequence parameter set found")
	}
	return info, nil
}

// firstSlice reports whether first_mb_in_slice, the leading ue(v) of the
// slice header, is zero.
func firstSlice(nalu []byte) bool {
	return nalu[1]&0x80 != 0
}

func detectFromMP4File(mp4File *mp4.File) (Info, error) {
	info := Info{Container: ContainerMP4, Codec: CodecUnknown}

	// Check fragmented MP4
	if mp4File.IsFragmented() {
		if mp4File.Init == nil || mp4File.Init.Moov == nil {
			return info, fmt.Errorf("fragmented mp4 without init segment")
		}
		for _, trak := range mp4File.Init.Moov.Traks {
			if detectTrack(trak, &info) {
				return info, countFragmented(mp4File, &info)
			}
		}
		return info, fmt.Errorf("no video track found")
	}

	// Check progressive MP4
	if mp4File.Moov != nil {
		for _, trak := range mp4File.Moov.Traks {
			if detectTrack(trak, &info) {
				countProgressive(trak, &info)
				return info, nil
			}
		}
	}

	return info, fmt.Errorf("no video track found")
}

// detectTrack fills codec and geometry from a video track's sample entry.
// It returns false for non-video tracks.
func detectTrack(trak *mp4.TrakBox, info *Info) bool {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
		return false
	}

	// Only process video tracks
	if trak.Mdia.Hdlr.HandlerType != "vide" {
		return false
	}

	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return false
	}

	stsd := trak.Mdia.Minf.Stbl.Stsd

	for _, child := range stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			info.Codec = CodecH264
		case "av01":
			info.Codec = CodecAV1
		case "hvc1", "hev1":
			info.Codec = CodecHEVC
		default:
			continue
		}
		if entry, ok := child.(*mp4.VisualSampleEntryBox); ok {
			info.Width, info.Height = int(entry.Width), int(entry.Height)
			if entry.AvcC != nil && len(entry.AvcC.SPSnalus) > 0 {
				if sps, err := avc.ParseSPSNALUnit(entry.AvcC.SPSnalus[0], false); err == nil {
					info.Profile, info.Level = sps.Profile, sps.Level
				}
			}
		}
		return true
	}

	return true
}

func countFragmented(mp4File *mp4.File, info *Info) error {
	var trex *mp4.TrexBox
	if mvex := mp4File.Init.Moov.Mvex; mvex != nil {
		trex = mvex.Trex
	}
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				return fmt.Errorf("read samples: %w", err)
			}
			for _, s := range samples {
				info.Frames++
				if s.IsSync() {
					info.Keyframes++
				}
			}
		}
	}
	return nil
}

func countProgressive(trak *mp4.TrakBox, info *Info) {
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz != nil {
		info.Frames = int(stbl.Stsz.SampleNumber)
	}
	if stbl.Stss != nil {
		info.Keyframes = len(stbl.Stss.SampleNumber)
	} else {
		// Without stss every sample is a sync sample.
		info.Keyframes = info.Frames
	}
}
