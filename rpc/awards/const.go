// Package awards contains client-side declarations of the VeilPress Awards
// contract.
package awards

const (
	// CycleMsKey is a key in awards config which contains the cycle length.
	CycleMsKey = "CycleMs"
	// SubmissionWindowMsKey is a key in awards config which contains the
	// submission window length.
	SubmissionWindowMsKey = "SubmissionWindowMs"
	// DecryptionTimeoutMsKey is a key in awards config which contains the
	// decryption failure horizon.
	DecryptionTimeoutMsKey = "DecryptionTimeoutMs"
	// SubmissionRefundMsKey is a key in awards config which contains the
	// submission timeout refund horizon.
	SubmissionRefundMsKey = "SubmissionRefundMs"
	// ReviewRefundMsKey is a key in awards config which contains the
	// reviewer timeout refund horizon.
	ReviewRefundMsKey = "ReviewRefundMs"
	// MinDepositKey is a key in awards config which contains the minimum
	// work deposit.
	MinDepositKey = "MinDeposit"
	// MinStakeKey is a key in awards config which contains the minimum
	// review stake.
	MinStakeKey = "MinStake"
	// PlatformFeeKey is a key in awards config which contains the platform
	// fee charged on work submission.
	PlatformFeeKey = "PlatformFee"
)

// Genre identifiers of the platform.
const (
	GenreFiction = iota
	GenrePoetry
	GenreDrama
	GenreEssay
	GenreShortStory
)

// Refund kinds reported in RefundClaimed notifications.
const (
	RefundDecryptionFailure = iota
	RefundSubmissionTimeout
	RefundReviewerTimeout
)

// GenreNames maps genre identifiers to display names.
var GenreNames = map[int]string{
	GenreFiction:    "fiction",
	GenrePoetry:     "poetry",
	GenreDrama:      "drama",
	GenreEssay:      "essay",
	GenreShortStory: "short story",
}
