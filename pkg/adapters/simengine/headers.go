package simengine

import "math/bits"

// bitWriter writes an RBSP most significant bit first.
type bitWriter struct {
	buf []byte
	cur byte
	n   uint
}

func (w *bitWriter) bit(b uint32) {
	w.cur = w.cur<<1 | byte(b&1)
	w.n++
	if w.n == 8 {
		w.buf = append(w.buf, w.cur)
		w.cur, w.n = 0, 0
	}
}

func (w *bitWriter) u(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bit(v >> uint(i))
	}
}

// ue writes an unsigned Exp-Golomb code.
func (w *bitWriter) ue(v uint32) {
	n := bits.Len32(v + 1)
	w.u(0, n-1)
	w.u(v+1, n)
}

// trailing writes rbsp_trailing_bits.
func (w *bitWriter) trailing() []byte {
	w.bit(1)
	for w.n != 0 {
		w.bit(0)
	}
	return w.buf
}

// escape inserts emulation prevention bytes into an RBSP.
func escape(rbsp []byte) []byte {
	out := make([]byte, 0, len(rbsp)+4)
	zeros := 0
	for _, b := range rbsp {
		if zeros == 2 && b <= 3 {
			out = append(out, 3)
			zeros = 0
		}
		out = append(out, b)
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}

func profileIdc(profile string) uint32 {
	switch profile {
	case "baseline":
		return 66
	case "main":
		return 77
	default:
		return 100
	}
}

func levelIdc(width, height int32) uint32 {
	mbs := ((width + 15) / 16) * ((height + 15) / 16)
	switch {
	case mbs <= 1620:
		return 31
	case mbs <= 8192:
		return 40
	default:
		return 51
	}
}

// sps returns a seq_parameter_set NAL (header included, no framing) for a
// progressive 8-bit 4:2:0 stream.
func sps(p *Params) []byte {
	var w bitWriter
	profile := profileIdc(p.Profile)
	w.u(profile, 8)
	w.u(0, 8) // constraint flags
	w.u(levelIdc(p.Width, p.Height), 8)
	w.ue(0) // seq_parameter_set_id
	if profile == 100 {
		w.ue(1) // chroma_format_idc 4:2:0
		w.ue(0) // bit_depth_luma_minus8
		w.ue(0) // bit_depth_chroma_minus8
		w.u(0, 1)
		w.u(0, 1) // seq_scaling_matrix_present_flag
	}
	w.ue(0) // log2_max_frame_num_minus4
	w.ue(0) // pic_order_cnt_type
	w.ue(2) // log2_max_pic_order_cnt_lsb_minus4
	w.ue(uint32(p.RefFrames))
	w.u(0, 1) // gaps_in_frame_num_value_allowed_flag

	mbw := uint32(p.Width+15) / 16
	mbh := uint32(p.Height+15) / 16
	w.ue(mbw - 1)
	w.ue(mbh - 1)
	w.u(1, 1) // frame_mbs_only_flag
	w.u(1, 1) // direct_8x8_inference_flag

	cropRight := (mbw*16 - uint32(p.Width)) / 2
	cropBottom := (mbh*16 - uint32(p.Height)) / 2
	if cropRight != 0 || cropBottom != 0 {
		w.u(1, 1)
		w.ue(0)
		w.ue(cropRight)
		w.ue(0)
		w.ue(cropBottom)
	} else {
		w.u(0, 1)
	}
	w.u(0, 1) // vui_parameters_present_flag

	return append([]byte{nalHeader(3, nalSPS)}, escape(w.trailing())...)
}

// pps returns a pic_parameter_set NAL matching sps.
func pps(p *Params) []byte {
	var w bitWriter
	w.ue(0) // pic_parameter_set_id
	w.ue(0) // seq_parameter_set_id
	if p.CABAC {
		w.u(1, 1)
	} else {
		w.u(0, 1)
	}
	w.u(0, 1) // bottom_field_pic_order_in_frame_present_flag
	w.ue(0)   // num_slice_groups_minus1
	w.ue(0)   // num_ref_idx_l0_default_active_minus1
	w.ue(0)   // num_ref_idx_l1_default_active_minus1
	w.u(0, 1) // weighted_pred_flag
	w.u(0, 2) // weighted_bipred_idc
	w.ue(0)   // pic_init_qp_minus26
	w.ue(0)   // pic_init_qs_minus26
	w.ue(0)   // chroma_qp_index_offset
	w.u(1, 1) // deblocking_filter_control_present_flag
	w.u(0, 1) // constrained_intra_pred_flag
	w.u(0, 1) // redundant_pic_cnt_present_flag

	return append([]byte{nalHeader(3, nalPPS)}, escape(w.trailing())...)
}
