package format

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Canonical encoding keeps output byte-stable across runs, so reports
// can be compared and content-addressed.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborEncMode = em
}

type CBOREncoder struct {
	w      io.Writer
	report *Report
}

func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{w: w}
}

func (e *CBOREncoder) Encode(report *Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *CBOREncoder) MarshalText() ([]byte, error) {
	return cborEncMode.Marshal(e.report)
}

// DecodeReport reads a CBOR-encoded report back, for round-tripping in
// tools that post-process dump output.
func DecodeReport(data []byte) (*Report, error) {
	var report Report
	if err := cbor.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
