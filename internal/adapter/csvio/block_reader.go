package csvio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/vladcebo/paytoy/internal/infrastructure/metrics"
)

// DefaultBlockSize is the read granularity of the block reader.
const DefaultBlockSize = 64 * 1024

// RawBlock is one chunk of the input stream covering whole lines only.
// Index is dense and starts at 0.
type RawBlock struct {
	Index int
	Data  []byte
}

// BlockReader cuts the input stream into fixed-size blocks and repairs the
// boundaries so that no record straddles two emitted blocks: each block is
// extended up to the next line terminator. The CSV header line is stripped
// from the first block.
type BlockReader struct {
	r         *bufio.Reader
	blockSize int
	log       zerolog.Logger
	metrics   *metrics.Metrics
}

// NewBlockReader wraps an input stream. A non-positive blockSize selects
// DefaultBlockSize.
func NewBlockReader(r io.Reader, blockSize int, log zerolog.Logger, m *metrics.Metrics) *BlockReader {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &BlockReader{
		r:         bufio.NewReaderSize(r, blockSize),
		blockSize: blockSize,
		log:       log.With().Str("stage", "reader").Logger(),
		metrics:   m,
	}
}

// Run reads the whole stream and sends blocks to out. It closes out on
// return, so downstream stages observe end-of-stream even when the read
// failed; the error is the pipeline's fatal stratum.
func (br *BlockReader) Run(out chan<- RawBlock) error {
	defer close(out)

	index := 0
	first := true
	for {
		block := make([]byte, br.blockSize)
		n, err := io.ReadFull(br.r, block)
		block = block[:n]

		switch err {
		case nil:
			// A full block was read; extend it to the next terminator so
			// the last record is whole.
			tail, terr := br.r.ReadBytes('\n')
			block = append(block, tail...)
			if terr != nil && terr != io.EOF {
				return fmt.Errorf("read input block %d: %w", index, terr)
			}
		case io.EOF, io.ErrUnexpectedEOF:
			// Short final block; the last record may lack a terminator.
		default:
			return fmt.Errorf("read input block %d: %w", index, err)
		}

		if first {
			block = stripHeader(block)
			first = false
		}

		if len(block) > 0 {
			out <- RawBlock{Index: index, Data: block}
			index++
			if br.metrics != nil {
				br.metrics.BlocksRead.Inc()
			}
		}

		if err != nil {
			br.log.Debug().Int("blocks", index).Msg("input drained")
			return nil
		}
	}
}

// stripHeader drops everything through the first line terminator. The
// first block always holds at least one full line because blocks end on
// terminators.
func stripHeader(block []byte) []byte {
	i := bytes.IndexByte(block, '\n')
	if i < 0 {
		return nil
	}
	return block[i+1:]
}
