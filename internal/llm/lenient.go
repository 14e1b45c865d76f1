package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

var (
	reLeadingFence  = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \t]*\\n?")
	reTrailingFence = regexp.MustCompile("\\n?```\\s*$")
)

// ErrUnparseable is returned when no strategy yields a JSON object.
var ErrUnparseable = errors.New("response is not a json object")

// CleanJSONResponse trims the response and strips one leading code fence (with an optional
// language tag) and one trailing fence.
func CleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = reLeadingFence.ReplaceAllString(s, "")
		s = reTrailingFence.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// DecodeObject runs the parse ladder over a cleaned candidate: strict ordered decode,
// then json-repair, then Hjson. The lenient steps only run for candidates that open
// like an object, so prose never turns into a record. repaired reports whether a
// lenient step produced the result.
func DecodeObject(candidate string) (pairs []record.Pair, repaired bool, err error) {
	pairs, err = record.DecodeObject([]byte(candidate))
	if err == nil {
		return pairs, false, nil
	}
	strictErr := err
	if !strings.HasPrefix(candidate, "{") {
		return nil, false, fmt.Errorf("%w: %v", ErrUnparseable, strictErr)
	}

	if fixed, rerr := jsonrepair.RepairJSON(candidate); rerr == nil {
		if pairs, err = record.DecodeObject([]byte(fixed)); err == nil {
			return pairs, true, nil
		}
	}

	om := hjson.NewOrderedMap()
	if herr := hjson.Unmarshal([]byte(candidate), om); herr == nil {
		if b, merr := json.Marshal(om); merr == nil {
			if pairs, err = record.DecodeObject(b); err == nil {
				return pairs, true, nil
			}
		}
	}
	return nil, false, fmt.Errorf("%w: %v", ErrUnparseable, strictErr)
}
