package split

import "sort"

// minSequenceLen is the shortest user history that can hold out a test item
// and a validation item while keeping at least one context item.
const minSequenceLen = 3

// ComputeStats derives the dataset statistics from the canonical sequences.
func ComputeStats(inters map[int][]int) Stats {
	maxItem := -1
	total := 0
	for _, seq := range inters {
		total += len(seq)
		for _, item := range seq {
			if item > maxItem {
				maxItem = item
			}
		}
	}
	return Stats{
		NUsers:       len(inters) + 1,
		NItems:       maxItem + 2,
		Interactions: total,
	}
}

// Generate derives the train/valid/test tables from the canonical per-user
// sequences using the leave-one-out protocol: the last item of each sequence
// is the test target, the second-to-last the validation target, and every
// earlier item starting from the second position is a training target paired
// with the prefix before it. Users shorter than minSequenceLen contribute no
// rows at all. Row order is user-major (ascending user id), then increasing
// window index within a user.
func Generate(inters map[int][]int, maxSeqLen int, pad int64) Splits {
	users := make([]int, 0, len(inters))
	for uid := range inters {
		users = append(users, uid)
	}
	sort.Ints(users)

	var splits Splits
	for _, uid := range users {
		seq := inters[uid]
		if len(seq) < minSequenceLen {
			continue
		}

		// The held-out validation and test items never appear in any
		// training context or target.
		trainPrefix := seq[:len(seq)-2]
		for i := 1; i < len(trainPrefix); i++ {
			padded, length := padContext(trainPrefix[:i], maxSeqLen, pad)
			splits.Train.append(uid, trainPrefix[i], padded, length)
		}

		padded, length := padContext(seq[:len(seq)-2], maxSeqLen, pad)
		splits.Valid.append(uid, seq[len(seq)-2], padded, length)

		padded, length = padContext(seq[:len(seq)-1], maxSeqLen, pad)
		splits.Test.append(uid, seq[len(seq)-1], padded, length)
	}
	return splits
}

// padContext keeps the most recent maxSeqLen items of context and left-pads
// shorter contexts with the pad sentinel up to exactly maxSeqLen. The second
// return value is the true pre-pad length.
func padContext(context []int, maxSeqLen int, pad int64) ([]int64, int64) {
	if len(context) > maxSeqLen {
		context = context[len(context)-maxSeqLen:]
	}
	padded := make([]int64, maxSeqLen)
	offset := maxSeqLen - len(context)
	for i := 0; i < offset; i++ {
		padded[i] = pad
	}
	for i, item := range context {
		padded[offset+i] = int64(item)
	}
	return padded, int64(len(context))
}
