// Package receipts accumulates a CSV record of committed students.
package receipts

import (
	"bytes"
	"encoding/csv"

	"github.com/inbtp/appariteur/pkg/commit"
)

type Buffer struct {
	buf bytes.Buffer
	csv *csv.Writer
}

// Emit records one outcome. The header is written on first use.
func (b *Buffer) Emit(o commit.Outcome) {
	b.init()
	c := o.Candidate
	_ = b.csv.Write([]string{o.Status.String(), o.ID, c.Nom, c.PostNom, c.PreNom, o.Error})
}

func (b *Buffer) Finalize() []byte {
	b.init()
	b.csv.Flush()
	return b.buf.Bytes()
}

func (b *Buffer) init() {
	if b.csv == nil {
		b.csv = csv.NewWriter(&b.buf)
		_ = b.csv.Write([]string{"status", "id", "nom", "postNom", "preNom", "error"})
	}
}
