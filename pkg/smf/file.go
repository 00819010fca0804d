// Package smf decodes Standard MIDI Files into a header, tracks and
// time-stamped messages.
//
// Decoding is all or nothing: either every track declared in the header
// decodes, or an error is returned and no File is produced.
package smf

import (
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// File is a decoded MIDI file. Tracks are in on-disk order.
type File struct {
	Header Header
	Tracks []Track
}

// Decoder decodes MIDI files. The zero value decodes sequentially and does
// not log.
type Decoder struct {
	// Parallelism is the number of tracks decoded at once. Values below 2
	// decode sequentially.
	Parallelism int

	// Logger receives per-track debug records and failure warnings. nil disables logging.
	Logger *slog.Logger
}

// Decode decodes buf sequentially.
func Decode(buf []byte) (*File, error) {
	var d Decoder
	return d.Decode(buf)
}

// Decode decodes buf. The header comes first, then header.TrackCount track
// chunks, each starting right after the previous one's declared payload.
// Errors are *DecodeError values; track failures carry the track index.
func (d *Decoder) Decode(buf []byte) (*File, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		d.warn("header decode failed", "error", err)
		return nil, err
	}

	var tracks []Track
	if d.Parallelism > 1 && header.TrackCount > 1 {
		tracks, err = d.decodeParallel(buf, header)
	} else {
		tracks, err = d.decodeSequential(buf, header)
	}
	if err != nil {
		return nil, err
	}

	return &File{Header: header, Tracks: tracks}, nil
}

func (d *Decoder) decodeSequential(buf []byte, header Header) ([]Track, error) {
	tracks := make([]Track, 0, header.TrackCount)
	offset := headerChunkSize
	for i := 0; i < int(header.TrackCount); i++ {
		c, err := readChunkHeader(buf, offset)
		if err != nil {
			err = withTrack(err, i)
			d.warn("track chunk header invalid", "track", i, "offset", offset, "error", err)
			return nil, err
		}
		track, err := d.decodeTrack(buf, i, c)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
		offset = c.end()
	}
	return tracks, nil
}

// locateChunks walks the chunk headers to find where every track starts. Only
// the 8-byte headers are read. On failure it returns the chunks found before
// the bad one together with the error.
func locateChunks(buf []byte, header Header) ([]chunk, error) {
	chunks := make([]chunk, 0, header.TrackCount)
	offset := headerChunkSize
	for i := 0; i < int(header.TrackCount); i++ {
		c, err := readChunkHeader(buf, offset)
		if err != nil {
			return chunks, withTrack(err, i)
		}
		chunks = append(chunks, c)
		offset = c.end()
	}
	return chunks, nil
}

// decodeParallel locates every chunk and then decodes them concurrently.
// Each goroutine only reads buf and writes its own slot, so results keep
// on-disk order. Errors are reported for the lowest failing track index,
// which is what sequential decoding would report.
func (d *Decoder) decodeParallel(buf []byte, header Header) ([]Track, error) {
	chunks, locateErr := locateChunks(buf, header)
	tracks := make([]Track, len(chunks))
	errs := make([]error, len(chunks))

	var g errgroup.Group
	g.SetLimit(d.Parallelism)
	for i, c := range chunks {
		i, c := i, c // per-iteration copies; go directive is below 1.22
		g.Go(func() error {
			track, err := d.decodeTrack(buf, i, c)
			if err != nil {
				errs[i] = err
				return err
			}
			tracks[i] = track
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	if locateErr != nil {
		d.warn("track chunk header invalid", "error", locateErr)
		return nil, locateErr
	}
	return tracks, nil
}

func (d *Decoder) decodeTrack(buf []byte, index int, c chunk) (Track, error) {
	track, err := decodeEvents(buf, c)
	if err != nil {
		err = withTrack(err, index)
		d.warn("track decode failed", "track", index, "offset", c.start, "error", err)
		return Track{}, err
	}
	if d.Logger != nil {
		d.Logger.Debug("track decoded",
			"track", index,
			"offset", c.start,
			"byte_length", c.length,
			"events", len(track.Events))
	}
	return track, nil
}

func (d *Decoder) warn(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Warn(msg, args...)
	}
}
