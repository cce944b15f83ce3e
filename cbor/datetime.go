package cbor

import (
	"strings"
	"time"

	"github.com/ionbridge/cborcore/value"
	"github.com/ionbridge/cborcore/wire"
)

const isoLayout = "2006-01-02T15:04:05.999999999Z07:00"

// encodeDatetime picks between the ISO-text and epoch-numeric emission
// rules, chosen by EncOptions.TimestampFormat.
func (e *Encoder) encodeDatetime(t time.Time) error {
	if e.opts.TimestampFormat == TimestampEpoch {
		return e.encodeEpochTimestamp(t)
	}
	return e.encodeISOTimestamp(t)
}

func (e *Encoder) encodeEpochTimestamp(t time.Time) error {
	e.buf = wire.AppendTagHead(e.buf, tagDateTimeNum)
	nsec := t.Nanosecond()
	if nsec == 0 {
		return e.encodeValue(t.Unix())
	}
	secs := float64(t.Unix()) + float64(nsec)/1e9
	return e.encodeValue(secs)
}

func (e *Encoder) encodeISOTimestamp(t time.Time) error {
	e.buf = wire.AppendTagHead(e.buf, tagDateTimeText)
	s := t.Format(isoLayout)
	if strings.HasSuffix(s, "+00:00") {
		s = strings.TrimSuffix(s, "+00:00") + "Z"
	}
	return e.encodeValue(s)
}

// encodeDate promotes a bare calendar date to midnight in the configured
// time zone and delegates to the datetime path.
// A Date carries no zone of its own, so with no Timezone configured this
// fails the same way a naive datetime would in the source ecosystem.
func (e *Encoder) encodeDate(d value.Date) error {
	if e.opts.Timezone == nil {
		return ErrNaiveDatetime{}
	}
	return e.encodeDatetime(d.Midnight(e.opts.Timezone))
}
