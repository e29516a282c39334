package corpus

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitSizes parses a specification of part sizes for splitting corpus
// output into several files, given the total number of trees. The
// specification is a list of part specifications separated by underscores.
// Each part is a number suffixed by '#' (an absolute number of trees) or
// '%' (a percentage of the total, rounded down), or the keyword "rest",
// which may occur once and receives the trees left over by the other
// parts.
//
//    SplitSizes("10%_rest_5000#", 50000)  ==>  [5000, 40000, 5000]
//
// Without a "rest" part, trees left over by rounding go to the largest
// part, ties to the first. A specification summing to more than the corpus
// is an error.
func SplitSizes(spec string, size int) ([]int, error) {
	parts := strings.Split(spec, "_")
	sizes := make([]int, len(parts))
	rest := -1
	for i, part := range parts {
		switch {
		case strings.HasSuffix(part, "%"):
			pct, err := strconv.Atoi(strings.TrimSuffix(part, "%"))
			if err != nil {
				return nil, fmt.Errorf("cannot parse split specification '%s'", spec)
			}
			sizes[i] = pct * size / 100
		case strings.HasSuffix(part, "#"):
			abs, err := strconv.Atoi(strings.TrimSuffix(part, "#"))
			if err != nil {
				return nil, fmt.Errorf("cannot parse split specification '%s'", spec)
			}
			sizes[i] = abs
		case part == "rest" && rest < 0:
			rest = i
		default:
			return nil, fmt.Errorf("cannot parse split specification '%s'", spec)
		}
	}
	sum := 0
	for _, n := range sizes {
		sum += n
	}
	switch {
	case sum < size:
		diff := size - sum
		if rest >= 0 {
			sizes[rest] = diff
		} else {
			largest := 0
			for i, n := range sizes {
				if n > sizes[largest] {
					largest = i
				}
			}
			sizes[largest] += diff
			tracer().Infof("rounding: %d extra trees go to part %d", diff, largest)
		}
	case sum == size:
		if rest >= 0 {
			tracer().Infof("'rest' part will be empty")
		}
	default:
		return nil, fmt.Errorf("treebank smaller than sum of split (%d vs %d)", size, sum)
	}
	return sizes, nil
}
