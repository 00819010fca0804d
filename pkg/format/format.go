// Package format renders decoded MIDI files as human-readable text.
package format

import (
	"bufio"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zurustar/midiparse/pkg/smf"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// Options adds optional lines to the header block.
type Options struct {
	// Size is the size of the source file in bytes. 0 omits the line.
	Size int

	// Length is the playback length. 0 omits the line.
	Length time.Duration
}

// Duration formats d with short units, keeping the two largest, e.g. "1m 30s".
func Duration(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

// Write prints file to w: the header fields, then every track with its
// events in order.
func Write(w io.Writer, file *smf.File, opts Options) error {
	bw := bufio.NewWriter(w)
	p := message.NewPrinter(language.English)

	p.Fprintln(bw, "----- MIDI FILE -----")
	p.Fprintln(bw, "*****")
	p.Fprintln(bw, "Header:")
	p.Fprintf(bw, "  File format: %s\n", file.Header.Format)
	p.Fprintf(bw, "  Number of tracks: %d\n", file.Header.TrackCount)
	p.Fprintf(bw, "  Ticks per quarter note: %d\n", file.Header.TicksPerQuarterNote)
	if opts.Size > 0 {
		p.Fprintf(bw, "  File size: %s\n", humanize.Bytes(uint64(opts.Size)))
	}
	if opts.Length > 0 {
		p.Fprintf(bw, "  Playback length: %s\n", Duration(opts.Length))
	}

	p.Fprintln(bw, "*****")
	p.Fprintln(bw, "Tracks:")
	for i, track := range file.Tracks {
		p.Fprintf(bw, "  Track %d\n", i+1)
		p.Fprintf(bw, "  Track length: %s\n", humanize.Bytes(uint64(track.ByteLength)))
		p.Fprintf(bw, "  Events: %d\n", len(track.Events))
		for _, ev := range track.Events {
			p.Fprintln(bw, "    --")
			p.Fprintf(bw, "    Delta time: %d\n", ev.DeltaTime)
			p.Fprintf(bw, "    Message: %s\n", ev.Message)
		}
	}
	p.Fprintln(bw, "---------------------")

	return bw.Flush()
}
