package repository

import (
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the prometheus.WriteRequest message family
const (
	writeRequestTimeseries protowire.Number = 1

	timeSeriesLabels  protowire.Number = 1
	timeSeriesSamples protowire.Number = 2

	labelName  protowire.Number = 1
	labelValue protowire.Number = 2

	sampleValue     protowire.Number = 1
	sampleTimestamp protowire.Number = 2
)

// remoteWriteSeries is one time series with a single sample
type remoteWriteSeries struct {
	Name        string
	Labels      map[string]string
	Value       float64
	TimestampMs int64
}

// encodeWriteRequest encodes a prometheus.WriteRequest carrying one sample per series
func encodeWriteRequest(series []remoteWriteSeries) []byte {
	var buf []byte
	for _, s := range series {
		buf = protowire.AppendTag(buf, writeRequestTimeseries, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeTimeSeries(s))
	}
	return buf
}

// encodeTimeSeries encodes a single TimeSeries. Labels are written sorted by
// name with __name__ first, as remote write receivers require.
func encodeTimeSeries(s remoteWriteSeries) []byte {
	names := make([]string, 0, len(s.Labels))
	for name := range s.Labels {
		if name == "__name__" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var buf []byte
	buf = appendLabel(buf, "__name__", s.Name)
	for _, name := range names {
		buf = appendLabel(buf, name, s.Labels[name])
	}

	var sample []byte
	sample = protowire.AppendTag(sample, sampleValue, protowire.Fixed64Type)
	sample = protowire.AppendFixed64(sample, math.Float64bits(s.Value))
	sample = protowire.AppendTag(sample, sampleTimestamp, protowire.VarintType)
	sample = protowire.AppendVarint(sample, uint64(s.TimestampMs))

	buf = protowire.AppendTag(buf, timeSeriesSamples, protowire.BytesType)
	buf = protowire.AppendBytes(buf, sample)
	return buf
}

func appendLabel(buf []byte, name, value string) []byte {
	var label []byte
	label = protowire.AppendTag(label, labelName, protowire.BytesType)
	label = protowire.AppendString(label, name)
	label = protowire.AppendTag(label, labelValue, protowire.BytesType)
	label = protowire.AppendString(label, value)

	buf = protowire.AppendTag(buf, timeSeriesLabels, protowire.BytesType)
	return protowire.AppendBytes(buf, label)
}
