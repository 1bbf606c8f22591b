package tournamentdomain

import "fmt"

// Tier fixes a tournament's entry fee and pot.
type Tier string

const (
	TierRookie Tier = "rookie"
	TierPro    Tier = "pro"
	TierElite  Tier = "elite"
)

var entryFees = map[Tier]int64{
	TierRookie: 500,
	TierPro:    1000,
	TierElite:  2000,
}

func (t Tier) Valid() bool {
	_, ok := entryFees[t]
	return ok
}

// EntryFeeCents is what each player pays to take a seat.
func (t Tier) EntryFeeCents() int64 { return entryFees[t] }

// PotCents is the full prize pool: every seat's entry fee.
func (t Tier) PotCents() int64 { return entryFees[t] * BracketSize }

// PayoutFormat selects how the pot is split across buckets.
type PayoutFormat string

const (
	// FormatCasual pays eight places on a flattened curve.
	FormatCasual PayoutFormat = "casual"
	// FormatPro pays four places.
	FormatPro PayoutFormat = "pro"
	// FormatWinnerTakeAll pays the champion only.
	FormatWinnerTakeAll PayoutFormat = "wta"
)

func (f PayoutFormat) Valid() bool {
	_, ok := shareTable[f]
	return ok
}

// Bucket is a placement range shared by players knocked out in the same round.
type Bucket string

const (
	BucketFirst  Bucket = "1st"
	BucketSecond Bucket = "2nd"
	BucketThird  Bucket = "3rd-4th"
	BucketFifth  Bucket = "5th-8th"
	BucketNinth  Bucket = "9th-16th"
)

// Buckets lists every bucket from best to worst.
var Buckets = []Bucket{BucketFirst, BucketSecond, BucketThird, BucketFifth, BucketNinth}

var bucketRanks = map[Bucket]struct{ best, worst int }{
	BucketFirst:  {1, 1},
	BucketSecond: {2, 2},
	BucketThird:  {3, 4},
	BucketFifth:  {5, 8},
	BucketNinth:  {9, 16},
}

func (b Bucket) Valid() bool {
	_, ok := bucketRanks[b]
	return ok
}

// Size is the number of players who land in b.
func (b Bucket) Size() int {
	r := bucketRanks[b]
	return r.worst - r.best + 1
}

// WorstRank is the rank handed to the first player placed in b.
func (b Bucket) WorstRank() int { return bucketRanks[b].worst }

// BestRank is the rank handed to the last player placed in b.
func (b Bucket) BestRank() int { return bucketRanks[b].best }

// LoserBucket returns the bucket for a player knocked out in round.
func LoserBucket(round int) (Bucket, error) {
	switch round {
	case 0:
		return BucketNinth, nil
	case 1:
		return BucketFifth, nil
	case 2:
		return BucketThird, nil
	case 3:
		return BucketSecond, nil
	}
	return "", fmt.Errorf("%w: no bucket for round %d", ErrInvalidBucket, round)
}

// shareUnits divides every pot into 320 units so each share is a whole number
// of cents for every tier.
const shareUnits = 320

// shareTable holds the per-player share of the pot for each bucket, in shareUnits.
var shareTable = map[PayoutFormat]map[Bucket]int64{
	FormatCasual: {
		BucketFirst:  80,
		BucketSecond: 60,
		BucketThird:  40,
		BucketFifth:  25,
	},
	FormatPro: {
		BucketFirst:  140,
		BucketSecond: 100,
		BucketThird:  40,
	},
	FormatWinnerTakeAll: {
		BucketFirst: 320,
	},
}

// Prize returns what one player placed in bucket receives.
func Prize(tier Tier, format PayoutFormat, bucket Bucket) (int64, error) {
	if !tier.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}
	shares, ok := shareTable[format]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if !bucket.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBucket, bucket)
	}
	return shares[bucket] * tier.PotCents() / shareUnits, nil
}
