// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import "io"

// Reader wraps a DecoderContext as an io.Reader over a compressed frame,
// the streaming counterpart to DecompressFrame (spec section 4.G).
//
// Grounded on the teacher's DecompressFromReader: a small adapter type
// that owns an input staging buffer and repeatedly pulls from the
// underlying reader until the inner decoder can make progress.
type Reader struct {
	r    io.Reader
	ctx  *DecoderContext
	opts *DecompressOptions

	in          []byte
	inPos, inLen int

	err error
}

// NewReader returns a Reader that decodes a single LZ4 frame read from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:    r,
		ctx:  NewDecoderContext(),
		opts: DefaultDecompressOptions(),
		in:   make([]byte, 64*1024),
	}
}

// SetDictionary seeds the decoder with an external dictionary before the
// first Read call.
func (r *Reader) SetDictionary(dict []byte) {
	r.ctx.SetDictionary(dict)
}

// SkipChecksums disables block and content checksum verification.
func (r *Reader) SkipChecksums(v bool) {
	r.opts.SkipChecksums = v
}

// Read implements io.Reader, decoding as many bytes into p as the frame
// and p's capacity allow.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	for {
		if r.ctx.state == fdFinished {
			r.err = io.EOF
			return 0, io.EOF
		}

		if r.inPos == r.inLen {
			n, err := r.r.Read(r.in)
			r.inLen = n
			r.inPos = 0
			if n == 0 {
				if err == nil {
					continue
				}
				if err == io.EOF {
					r.err = newFrameError(FrameHeaderIncomplete, "truncated frame")
					return 0, r.err
				}
				r.err = err
				return 0, err
			}
		}

		consumed, written, _, err := r.ctx.Decompress(p, r.in[r.inPos:r.inLen], r.opts)
		r.inPos += consumed
		if err != nil {
			r.err = err
			return written, err
		}
		if written > 0 {
			return written, nil
		}
		if r.ctx.state == fdFinished {
			r.err = io.EOF
			return 0, io.EOF
		}
	}
}

// Writer wraps an EncoderContext as an io.WriteCloser, writing a complete
// LZ4 frame to w as bytes are written to it and on Close.
type Writer struct {
	w     io.Writer
	ctx   *EncoderContext
	prefs *Preferences

	began bool
}

// NewWriter returns a Writer using DefaultPreferences.
func NewWriter(w io.Writer) *Writer {
	return NewWriterPrefs(w, DefaultPreferences())
}

// NewWriterLevel returns a Writer compressing at the given level.
func NewWriterLevel(w io.Writer, level int) *Writer {
	prefs := DefaultPreferences()
	prefs.CompressionLevel = level
	return NewWriterPrefs(w, prefs)
}

// NewWriterPrefs returns a Writer using the given Preferences.
func NewWriterPrefs(w io.Writer, prefs *Preferences) *Writer {
	return &Writer{w: w, ctx: NewEncoderContext(), prefs: prefs.clone()}
}

func (w *Writer) writeBegin() error {
	if w.began {
		return nil
	}
	hdr := make([]byte, 19)
	n, err := w.ctx.Begin(hdr, w.prefs)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(hdr[:n]); err != nil {
		return err
	}
	w.began = true
	return nil
}

// Write implements io.Writer (spec section 4.F, "Update"): every full
// block p completes is compressed and written to the underlying writer; a
// trailing partial block stays buffered until a later Write or Close,
// unless AutoFlush is set.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.writeBegin(); err != nil {
		return 0, err
	}

	dst := make([]byte, CompressFrameBound(len(p), w.prefs))
	n, err := w.ctx.Update(dst, p, nil)
	if err != nil {
		return 0, err
	}
	if _, err := w.w.Write(dst[:n]); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close flushes any buffered partial block, writes the end mark and
// optional content checksum, and finishes the frame. It does not close
// the underlying writer.
func (w *Writer) Close() error {
	if err := w.writeBegin(); err != nil {
		return err
	}

	dst := make([]byte, CompressFrameBound(w.ctx.blockMax, w.prefs))
	n, err := w.ctx.End(dst)
	if err != nil {
		return err
	}
	_, err = w.w.Write(dst[:n])
	return err
}
