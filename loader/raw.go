package loader

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/vanilla/memory"
)

// rawHeader opens a Logisim memory image.
const rawHeader = "v2.0 raw"

// parseRaw reads a "v2.0 raw" image. After the header line, tokens are
// whitespace separated hex words loaded from address 0. A token "N*w"
// repeats w N times (N in decimal). A '#' starts a comment that runs to the
// end of the line.
func parseRaw(data []byte) (*Program, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	if !scanner.Scan() || strings.TrimSpace(stripComment(scanner.Text())) != rawHeader {
		return nil, errors.Wrapf(ErrBadImage, "missing %q header", rawHeader)
	}

	var words []uint32
	line := 1

	for scanner.Scan() {
		line++
		for _, tok := range strings.Fields(stripComment(scanner.Text())) {
			count, word, err := parseToken(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			if len(words)+count > memory.NumWords {
				return nil, errors.Wrapf(ErrBadImage,
					"line %d: image exceeds %d words", line, memory.NumWords)
			}
			for i := 0; i < count; i++ {
				words = append(words, word)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan image")
	}

	prog := &Program{}
	if len(words) > 0 {
		prog.Segments = []Segment{{Base: 0, Words: words}}
	}
	return prog, nil
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseToken(tok string) (count int, word uint32, err error) {
	count = 1
	if n, w, ok := strings.Cut(tok, "*"); ok {
		c, err := strconv.ParseUint(n, 10, 32)
		if err != nil || c == 0 {
			return 0, 0, errors.Wrapf(ErrBadImage, "bad run length %q", tok)
		}
		count = int(min(c, memory.NumWords+1))
		tok = w
	}

	v, err := strconv.ParseUint(tok, 16, 32)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrBadImage, "bad word %q", tok)
	}
	return count, uint32(v), nil
}
