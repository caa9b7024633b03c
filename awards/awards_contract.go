package awards

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/veilpress/veilpress-contract/common"
)

type (
	// Work structure stores metadata of one submitted literary work.
	Work struct {
		Author        interop.Hash160
		Title         string
		Genre         int
		ContentRef    string
		SubmittedAt   int
		Deposit       int
		Submitted     bool
		Reviewed      bool
		RefundClaimed bool
		Aggregate     []byte
		Score         int
		HasScore      bool
	}

	// Review structure stores one reviewer's encrypted verdict on a work.
	// Score handles hold values in [1, 100], the multiplier handle holds
	// a value in [100, 1000) generated once at submission time.
	Review struct {
		Reviewer      interop.Hash160
		Quality       []byte
		Originality   []byte
		Impact        []byte
		Multiplier    []byte
		Stake         int
		SubmittedAt   int
		Comments      string
		RefundClaimed bool
	}

	// DecryptionRequest tracks the lifecycle of one aggregate score
	// decryption. Completed and Failed are terminal and mutually
	// exclusive.
	DecryptionRequest struct {
		ID          []byte
		Period      int
		WorkID      int
		Requester   interop.Hash160
		RequestedAt int
		Completed   bool
		Failed      bool
		Value       int
	}

	// Award structure stores the per-genre result of one period.
	Award struct {
		Genre       int
		WorkID      int
		Announced   bool
		AnnouncedAt int
	}

	// PeriodStats is a read model of one period.
	PeriodStats struct {
		WorkCount   int
		ReviewCount int
	}

	record struct {
		key []byte
		val []byte
	}
)

const (
	// ErrPaused is returned on user operations while the platform is paused.
	ErrPaused = "contract is paused"
	// ErrWindowClosed is returned on submission outside the submission window.
	ErrWindowClosed = "submission window is closed"
	// ErrReviewWindowClosed is returned on review outside the review window.
	ErrReviewWindowClosed = "review window is closed"
	// ErrInvalidPeriodTransition is returned on a period advance outside its
	// window or over an unsealed period.
	ErrInvalidPeriodTransition = "invalid period transition"
	// ErrInvalidInput is returned on empty or oversized text fields and
	// unknown genres.
	ErrInvalidInput = "invalid input"
	// ErrInsufficientDeposit is returned when the work deposit is below the
	// configured minimum.
	ErrInsufficientDeposit = "deposit is below the minimum"
	// ErrInsufficientStake is returned when the review stake is below the
	// configured minimum.
	ErrInsufficientStake = "stake is below the minimum"
	// ErrUnknownWork is returned on any operation over a missing work.
	ErrUnknownWork = "work does not exist"
	// ErrDuplicateReview is returned on a second review for the same
	// (period, work, reviewer) triple.
	ErrDuplicateReview = "review already submitted for this work"
	// ErrNotAuthorizedReviewer is returned when the reviewer has no
	// operator approval in the registry.
	ErrNotAuthorizedReviewer = "reviewer is not authorized"
	// ErrScoreOutOfRange is returned when a score is outside [1, 100].
	ErrScoreOutOfRange = "score is out of range"
	// ErrNoReviews is returned on a decryption request for a work without
	// reviews.
	ErrNoReviews = "work has no reviews"
	// ErrDuplicateRequest is returned on a second decryption request for
	// the same work, the first one being terminal or not.
	ErrDuplicateRequest = "decryption request already exists"
	// ErrUnknownRequest is returned on any operation over a missing
	// decryption request.
	ErrUnknownRequest = "decryption request does not exist"
	// ErrInvalidProof is returned when the decryption proof fails
	// verification. The request stays pending.
	ErrInvalidProof = "invalid decryption proof"
	// ErrAlreadyFinalized is returned on a callback or failure marking for
	// a terminal request.
	ErrAlreadyFinalized = "decryption request already finalized"
	// ErrTimeoutNotReached is returned on a timeout-gated operation before
	// its horizon.
	ErrTimeoutNotReached = "timeout not reached"
	// ErrNotFailed is returned on a decryption failure refund while the
	// request neither failed nor timed out.
	ErrNotFailed = "decryption request is not failed"
	// ErrNoReview is returned on a reviewer refund without a review.
	ErrNoReview = "review does not exist"
	// ErrNotSubmitter is returned on a submission refund claimed by
	// anybody but the original submitter.
	ErrNotSubmitter = "caller is not the submitter"
	// ErrAlreadyReviewed is returned on a submission timeout refund for a
	// work whose aggregate score was already decrypted.
	ErrAlreadyReviewed = "work already reviewed"
	// ErrDecryptionSucceeded is returned on a reviewer timeout refund for
	// a work whose decryption completed.
	ErrDecryptionSucceeded = "decryption succeeded"
	// ErrAlreadyClaimed is returned on a repeated refund claim.
	ErrAlreadyClaimed = "refund already claimed"

	// CycleMsKey is a key in awards config which contains the length of
	// one submission+review cycle in milliseconds.
	CycleMsKey = "CycleMs"
	// SubmissionWindowMsKey is a key in awards config which contains the
	// length of the submission half of the cycle in milliseconds.
	SubmissionWindowMsKey = "SubmissionWindowMs"
	// DecryptionTimeoutMsKey is a key in awards config which contains the
	// decryption failure horizon in milliseconds.
	DecryptionTimeoutMsKey = "DecryptionTimeoutMs"
	// SubmissionRefundMsKey is a key in awards config which contains the
	// submission timeout refund horizon in milliseconds.
	SubmissionRefundMsKey = "SubmissionRefundMs"
	// ReviewRefundMsKey is a key in awards config which contains the
	// reviewer timeout refund horizon in milliseconds.
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

	// GenreFiction and the genres below form the fixed category set of
	// the platform.
	GenreFiction    = 0
	GenrePoetry     = 1
	GenreDrama      = 2
	GenreEssay      = 3
	GenreShortStory = 4

	genreCount = 5

	// RefundDecryptionFailure and the kinds below identify the three
	// refund paths in IsRefundClaimable and RefundClaimed notifications.
	RefundDecryptionFailure = 0
	RefundSubmissionTimeout = 1
	RefundReviewerTimeout   = 2

	maxTitleLen      = 200
	maxContentRefLen = 200
	maxCommentsLen   = 500

	minScore = 1
	maxScore = 100

	operatorKey         = 'm'
	registryContractKey = 'r'
	cipherContractKey   = 'e'
	pausedKey           = 'u'
	baseTimeKey         = 't'
	submissionPeriodKey = 's'
	reviewPeriodKey     = 'g'
	feesKey             = 'f'

	balancePrefix     = 'b'
	workCounterPrefix = 'c'
	workPrefix        = 'x'
	reviewPrefix      = 'v'
	requestPrefix     = 'd'
	requestIDPrefix   = 'q'
	awardPrefix       = 'a'

	defaultCycleMs           = 30 * 24 * 3600 * 1000
	defaultSubmissionMs      = 14 * 24 * 3600 * 1000
	defaultDecryptionMs      = 3600 * 1000
	defaultSubmissionRefund  = 7 * 24 * 3600 * 1000
	defaultReviewRefund      = 7 * 24 * 3600 * 1000
	defaultMinDeposit        = 1_0000_0000
	defaultMinStake          = 5000_0000
	defaultPlatformFee       = 100_0000
	multiplierFloor          = 100
	multiplierRange          = 900
)

var (
	configPrefix = []byte("config")
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	args := data.([]any)
	if isUpdate {
		version := args[len(args)-1].(int)
		common.CheckVersion(version)
		return
	}

	operator := args[0].(interop.Hash160)
	registryAddr := args[1].(interop.Hash160)
	cipherAddr := args[2].(interop.Hash160)
	if len(operator) != interop.Hash160Len {
		panic("incorrect operator script hash")
	}
	if len(registryAddr) != interop.Hash160Len {
		panic("incorrect registry contract script hash")
	}
	if len(cipherAddr) != interop.Hash160Len {
		panic("incorrect cipher contract script hash")
	}

	storage.Put(ctx, []byte{operatorKey}, operator)
	storage.Put(ctx, []byte{registryContractKey}, registryAddr)
	storage.Put(ctx, []byte{cipherContractKey}, cipherAddr)
	storage.Put(ctx, []byte{baseTimeKey}, runtime.GetTime())
	storage.Put(ctx, []byte{submissionPeriodKey}, 1)
	storage.Put(ctx, []byte{reviewPeriodKey}, 0)

	setConfig(ctx, CycleMsKey, defaultCycleMs)
	setConfig(ctx, SubmissionWindowMsKey, defaultSubmissionMs)
	setConfig(ctx, DecryptionTimeoutMsKey, defaultDecryptionMs)
	setConfig(ctx, SubmissionRefundMsKey, defaultSubmissionRefund)
	setConfig(ctx, ReviewRefundMsKey, defaultReviewRefund)
	setConfig(ctx, MinDepositKey, defaultMinDeposit)
	setConfig(ctx, MinStakeKey, defaultMinStake)
	setConfig(ctx, PlatformFeeKey, defaultPlatformFee)

	if len(args) > 3 {
		overrides := args[3].([]any)
		ln := len(overrides)
		if ln%2 != 0 {
			panic("bad configuration")
		}
		for i := 0; i < ln/2; i++ {
			setConfig(ctx, overrides[i*2].(string), overrides[i*2+1].(int))
		}
	}

	runtime.Log("awards contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// by committee only.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("awards contract updated")
}

// Verify checks whether the carrier transaction is signed by the platform
// operator.
func Verify() bool {
	ctx := storage.GetReadOnlyContext()
	return runtime.CheckWitness(operatorAddress(ctx))
}

// OnNEP17Payment accepts GAS deposits and credits the receiver's escrow
// balance. Data may contain a receiver script hash, otherwise the sender
// is credited.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if amount <= 0 {
		common.AbortWithMessage("amount must be positive")
	}

	caller := runtime.GetCallingScriptHash()
	if !common.BytesEqual(caller, []byte(gas.Hash)) {
		common.AbortWithMessage("only GAS can be accepted for deposit")
	}

	rcv := from
	if data != nil {
		h := data.(interop.Hash160)
		if len(h) == interop.Hash160Len {
			rcv = h
		}
	}

	ctx := storage.GetContext()
	common.Credit(ctx, balancePrefix, rcv, amount)

	tx := runtime.GetScriptContainer()
	runtime.Notify("Deposit", from, amount, rcv, tx.Hash)
}

// BalanceOf returns the escrow balance of the account.
func BalanceOf(acc interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.BalanceOf(ctx, balancePrefix, acc)
}

// Withdraw transfers GAS from the account's escrow balance back to the
// account. It can be invoked by the account owner only. The balance is
// debited before the transfer; a failed transfer reverts the whole
// transaction, so the claim stays retryable.
func Withdraw(acc interop.Hash160, amount int) {
	common.CheckOwnerWitness(acc)

	ctx := storage.GetContext()
	common.Debit(ctx, balancePrefix, acc, amount)

	if !gas.Transfer(runtime.GetExecutingScriptHash(), acc, amount, nil) {
		panic("failed to transfer funds, aborting")
	}

	runtime.Notify("Withdrawal", acc, amount)
}

// WithdrawFees transfers all accumulated platform fees to the given account.
// It can be invoked by the operator only.
func WithdrawFees(to interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	amount := accumulatedFees(ctx)
	if amount == 0 {
		panic("no accumulated fees")
	}
	storage.Delete(ctx, []byte{feesKey})

	if !gas.Transfer(runtime.GetExecutingScriptHash(), to, amount, nil) {
		panic("failed to transfer funds, aborting")
	}

	runtime.Notify("FeesWithdrawn", to, amount)
}

// SetPaused stops or resumes work and review intake. It can be invoked by
// the operator only. Refund claims and withdrawals stay available while
// paused.
func SetPaused(paused bool) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))
	storage.Put(ctx, []byte{pausedKey}, paused)
	if paused {
		runtime.Log("platform paused")
	} else {
		runtime.Log("platform resumed")
	}
}

// IsPaused returns whether work and review intake is stopped.
func IsPaused() bool {
	ctx := storage.GetReadOnlyContext()
	return isPaused(ctx)
}

// SetConfig sets a configuration value. It can be invoked by the operator
// only.
func SetConfig(key []byte, val int) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))
	setConfig(ctx, key, val)
	runtime.Log("configuration has been updated")
}

// Config returns a configuration value of the platform.
func Config(key []byte) any {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx, key)
}

// ListConfig returns an array of structures that contain a key and a value
// of all platform configuration records. Key and value are both byte arrays.
func ListConfig() []record {
	ctx := storage.GetReadOnlyContext()

	var config []record

	it := storage.Find(ctx, configPrefix, storage.None)
	for iterator.Next(it) {
		pair := iterator.Value(it).(struct {
			key []byte
			val []byte
		})
		r := record{key: pair.key[len(configPrefix):], val: pair.val}
		config = append(config, r)
	}

	return config
}

// IsSubmissionWindowOpen returns whether the current block time falls into
// the submission half of the cycle.
func IsSubmissionWindowOpen() bool {
	ctx := storage.GetReadOnlyContext()
	return submissionWindowOpen(ctx)
}

// IsReviewWindowOpen returns whether the current block time falls into the
// review half of the cycle.
func IsReviewWindowOpen() bool {
	ctx := storage.GetReadOnlyContext()
	return !submissionWindowOpen(ctx)
}

// SubmissionPeriod returns the current submission period counter.
func SubmissionPeriod() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, []byte{submissionPeriodKey}).(int)
}

// ReviewPeriod returns the current review period counter. It never exceeds
// the submission period.
func ReviewPeriod() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, []byte{reviewPeriodKey}).(int)
}

// AdvanceSubmissionPeriod opens the next submission period with a fresh
// work counter. It can be invoked by the operator only and only while the
// submission window is open.
func AdvanceSubmissionPeriod() {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	if !submissionWindowOpen(ctx) {
		panic(ErrInvalidPeriodTransition)
	}

	period := storage.Get(ctx, []byte{submissionPeriodKey}).(int) + 1
	storage.Put(ctx, []byte{submissionPeriodKey}, period)

	runtime.Notify("SubmissionPeriodAdvanced", period)
}

// AdvanceReviewPeriod seals the current submission period for reviewing. It
// can be invoked by the operator only, only while the review window is open
// and only if the review period lags behind the submission period.
func AdvanceReviewPeriod() {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	if submissionWindowOpen(ctx) {
		panic(ErrInvalidPeriodTransition)
	}

	submission := storage.Get(ctx, []byte{submissionPeriodKey}).(int)
	review := storage.Get(ctx, []byte{reviewPeriodKey}).(int)
	if review >= submission {
		panic(ErrInvalidPeriodTransition)
	}

	storage.Put(ctx, []byte{reviewPeriodKey}, submission)

	runtime.Notify("ReviewPeriodAdvanced", submission)
}

// SubmitWork stores a new literary work in the current submission period and
// escrows its deposit plus the platform fee. It returns the sequential work
// id, starting from 1 within the period. It can be invoked by the author
// only.
func SubmitWork(author interop.Hash160, title string, genre int, contentRef string, deposit int) int {
	ctx := storage.GetContext()
	requireNotPaused(ctx)
	common.CheckOwnerWitness(author)

	if !submissionWindowOpen(ctx) {
		panic(ErrWindowClosed)
	}
	if len(title) == 0 || len(title) > maxTitleLen ||
		len(contentRef) == 0 || len(contentRef) > maxContentRefLen {
		panic(ErrInvalidInput)
	}
	if genre < 0 || genre >= genreCount {
		panic(ErrInvalidInput)
	}
	if deposit < getConfig(ctx, MinDepositKey).(int) {
		panic(ErrInsufficientDeposit)
	}

	fee := getConfig(ctx, PlatformFeeKey).(int)
	common.Debit(ctx, balancePrefix, author, deposit+fee)
	storage.Put(ctx, []byte{feesKey}, accumulatedFees(ctx)+fee)

	period := storage.Get(ctx, []byte{submissionPeriodKey}).(int)
	id := workCount(ctx, period) + 1
	storage.Put(ctx, workCounterKey(period), id)

	w := Work{
		Author:        author,
		Title:         title,
		Genre:         genre,
		ContentRef:    contentRef,
		SubmittedAt:   runtime.GetTime(),
		Deposit:       deposit,
		Submitted:     true,
		Reviewed:      false,
		RefundClaimed: false,
		Aggregate:     []byte{},
		Score:         0,
		HasScore:      false,
	}
	common.SetSerialized(ctx, workKey(period, id), w)

	runtime.Notify("WorkSubmitted", period, id, author, genre)
	return id
}

// GetWork returns the stored work.
//
// If the work doesn't exist, it panics with ErrUnknownWork.
func GetWork(period int, id int) Work {
	ctx := storage.GetReadOnlyContext()
	return getWork(ctx, period, id)
}

// Works returns an iterator over all works of the period.
func Works(period int) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{workPrefix}, common.U64Bytes(period)...),
		storage.ValuesOnly|storage.DeserializeValues)
}

// GetPeriodStats returns the number of works and reviews stored for the
// period.
func GetPeriodStats(period int) PeriodStats {
	ctx := storage.GetReadOnlyContext()

	reviews := 0
	it := storage.Find(ctx, append([]byte{reviewPrefix}, common.U64Bytes(period)...), storage.KeysOnly)
	for iterator.Next(it) {
		reviews++
	}

	return PeriodStats{
		WorkCount:   workCount(ctx, period),
		ReviewCount: reviews,
	}
}

// GetWorkReviewers returns the list of reviewer accounts that submitted a
// review for the work.
func GetWorkReviewers(period int, id int) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()

	var reviewers []interop.Hash160

	prefix := reviewKeyPrefix(period, id)
	it := storage.Find(ctx, prefix, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		reviewers = append(reviewers, iterator.Value(it).([]byte))
	}

	return reviewers
}

// SubmitReview stores an encrypted review for a work of the current review
// period and escrows the review stake. Plaintext scores must lie in
// [1, 100]; they are encrypted through the cipher contract and the reviewer
// is granted reveal access to their own three score handles. A privacy
// multiplier in [100, 1000) is generated once and attached encrypted. It can
// be invoked by an authorized reviewer only.
func SubmitReview(reviewer interop.Hash160, workID int, quality int, originality int, impact int, comments string, stake int) {
	ctx := storage.GetContext()
	period := checkReviewPreconditions(ctx, reviewer, workID, comments, stake)

	if quality < minScore || quality > maxScore ||
		originality < minScore || originality > maxScore ||
		impact < minScore || impact > maxScore {
		panic(ErrScoreOutOfRange)
	}

	cipherAddr := cipherAddress(ctx)
	self := runtime.GetExecutingScriptHash()
	qh := contract.Call(cipherAddr, "encrypt", contract.All, self, quality).([]byte)
	oh := contract.Call(cipherAddr, "encrypt", contract.All, self, originality).([]byte)
	ih := contract.Call(cipherAddr, "encrypt", contract.All, self, impact).([]byte)

	contract.Call(cipherAddr, "allow", contract.All, qh, reviewer)
	contract.Call(cipherAddr, "allow", contract.All, oh, reviewer)
	contract.Call(cipherAddr, "allow", contract.All, ih, reviewer)

	storeReview(ctx, period, workID, reviewer, qh, oh, ih, comments, stake)
}

// SubmitEncryptedReview is the pre-encrypted variant of SubmitReview: the
// reviewer encrypts the three scores through the cipher contract beforehand
// and submits the handles. Each handle must pass the capability's [1, 100]
// range attestation.
func SubmitEncryptedReview(reviewer interop.Hash160, workID int, quality []byte, originality []byte, impact []byte, comments string, stake int) {
	ctx := storage.GetContext()
	period := checkReviewPreconditions(ctx, reviewer, workID, comments, stake)

	cipherAddr := cipherAddress(ctx)
	self := runtime.GetExecutingScriptHash()
	handles := [][]byte{quality, originality, impact}
	for i := 0; i < len(handles); i++ {
		ok := contract.Call(cipherAddr, "checkRange", contract.ReadOnly,
			handles[i], minScore, maxScore).(bool)
		if !ok {
			panic(ErrScoreOutOfRange)
		}
		// the reviewer's witness is present only now, the grant lets the
		// contract aggregate the handle later without it
		contract.Call(cipherAddr, "allow", contract.All, handles[i], self)
	}

	storeReview(ctx, period, workID, reviewer, quality, originality, impact, comments, stake)
}

// GetReview returns the stored review.
//
// If the review doesn't exist, it panics with ErrNoReview.
func GetReview(period int, id int, reviewer interop.Hash160) Review {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, reviewKey(period, id, reviewer))
	if data == nil {
		panic(ErrNoReview)
	}
	return std.Deserialize(data.([]byte)).(Review)
}

// RequestDecryption aggregates all reviews of the work into a single
// obfuscated encrypted score and asks the cipher contract to reveal it.
// Every reviewer's category total is multiplied by that reviewer's own
// multiplier before accumulation, so the cleartext is an opaque ranking
// signal rather than a plain sum. It can be invoked by the operator only
// and at most once per work; there is no re-request path after a failure.
// It returns the request id.
func RequestDecryption(period int, workID int) []byte {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	w := getWork(ctx, period, workID)
	if storage.Get(ctx, requestKey(period, workID)) != nil {
		panic(ErrDuplicateRequest)
	}

	cipherAddr := cipherAddress(ctx)
	total := aggregate(ctx, cipherAddr, period, workID)
	if total == nil {
		panic(ErrNoReviews)
	}

	w.Aggregate = total
	common.SetSerialized(ctx, workKey(period, workID), w)

	id := contract.Call(cipherAddr, "requestDecryption", contract.All,
		[][]byte{total}).([]byte)

	req := DecryptionRequest{
		ID:          id,
		Period:      period,
		WorkID:      workID,
		Requester:   operatorAddress(ctx),
		RequestedAt: runtime.GetTime(),
		Completed:   false,
		Failed:      false,
		Value:       0,
	}
	common.SetSerialized(ctx, requestKey(period, workID), req)
	common.SetSerialized(ctx, append([]byte{requestIDPrefix}, id...), []int{period, workID})

	runtime.Notify("ScoreDecryptionRequested", period, workID, id)
	return id
}

// OnDecryptionCallback delivers the decrypted aggregate score. It is meant
// to be invoked by the decryption oracle. The proof is verified through the
// cipher contract before any state transition; a failed verification leaves
// the request pending so that a later valid callback can still succeed. A
// valid callback for a terminal request fails with ErrAlreadyFinalized and
// has no effect.
func OnDecryptionCallback(requestID []byte, value int, proof []byte) {
	ctx := storage.GetContext()

	ref := storage.Get(ctx, append([]byte{requestIDPrefix}, requestID...))
	if ref == nil {
		panic(ErrUnknownRequest)
	}

	cipherAddr := cipherAddress(ctx)
	ok := contract.Call(cipherAddr, "verifyDecryptionProof", contract.ReadOnly,
		requestID, value, proof).(bool)
	if !ok {
		panic(ErrInvalidProof)
	}

	loc := std.Deserialize(ref.([]byte)).([]int)
	period := loc[0]
	workID := loc[1]

	req := getRequest(ctx, period, workID)
	if req.Completed || req.Failed {
		panic(ErrAlreadyFinalized)
	}

	req.Completed = true
	req.Value = value
	common.SetSerialized(ctx, requestKey(period, workID), req)

	w := getWork(ctx, period, workID)
	w.Reviewed = true
	common.SetSerialized(ctx, workKey(period, workID), w)

	runtime.Notify("ScoreDecrypted", period, workID, value)
}

// MarkDecryptionFailed transitions a pending decryption request to the
// terminal failed state once the decryption timeout has elapsed. It can be
// invoked by the operator only. Refund eligibility does not depend on this
// call: a pending request past the timeout already qualifies.
func MarkDecryptionFailed(period int, workID int) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	req := getRequest(ctx, period, workID)
	if req.Completed || req.Failed {
		panic(ErrAlreadyFinalized)
	}
	if runtime.GetTime() <= req.RequestedAt+getConfig(ctx, DecryptionTimeoutMsKey).(int) {
		panic(ErrTimeoutNotReached)
	}

	req.Failed = true
	common.SetSerialized(ctx, requestKey(period, workID), req)

	runtime.Notify("ScoreDecryptionFailed", period, workID)
}

// GetDecryptionStatus returns the stored decryption request of the work.
//
// If no request was ever issued, it panics with ErrUnknownRequest.
func GetDecryptionStatus(period int, workID int) DecryptionRequest {
	ctx := storage.GetReadOnlyContext()
	return getRequest(ctx, period, workID)
}

// ClaimDecryptionFailureRefund returns the review stake to the reviewer
// after the work's decryption request failed or stayed pending beyond the
// decryption timeout. The stake is credited to the reviewer's escrow
// balance. It can be invoked by the reviewer only and succeeds at most
// once.
func ClaimDecryptionFailureRefund(reviewer interop.Hash160, period int, workID int) {
	common.CheckOwnerWitness(reviewer)

	ctx := storage.GetContext()
	data := storage.Get(ctx, reviewKey(period, workID, reviewer))
	if data == nil {
		panic(ErrNoReview)
	}
	rv := std.Deserialize(data.([]byte)).(Review)

	if !decryptionFailed(ctx, period, workID) {
		panic(ErrNotFailed)
	}
	if rv.RefundClaimed {
		panic(ErrAlreadyClaimed)
	}

	rv.RefundClaimed = true
	common.SetSerialized(ctx, reviewKey(period, workID, reviewer), rv)
	common.Credit(ctx, balancePrefix, reviewer, rv.Stake)

	runtime.Notify("RefundClaimed", period, workID, reviewer, rv.Stake, RefundDecryptionFailure)
}

// ClaimSubmissionTimeoutRefund returns the work deposit to the author after
// the submission refund horizon elapsed without the work being reviewed.
// The deposit is credited to the author's escrow balance. It can be invoked
// by the original submitter only and succeeds at most once.
func ClaimSubmissionTimeoutRefund(author interop.Hash160, period int, workID int) {
	common.CheckOwnerWitness(author)

	ctx := storage.GetContext()
	w := getWork(ctx, period, workID)
	if !w.Author.Equals(author) {
		panic(ErrNotSubmitter)
	}
	if runtime.GetTime() <= w.SubmittedAt+getConfig(ctx, SubmissionRefundMsKey).(int) {
		panic(ErrTimeoutNotReached)
	}
	if w.Reviewed {
		panic(ErrAlreadyReviewed)
	}
	if w.RefundClaimed {
		panic(ErrAlreadyClaimed)
	}

	w.RefundClaimed = true
	common.SetSerialized(ctx, workKey(period, workID), w)
	common.Credit(ctx, balancePrefix, author, w.Deposit)

	runtime.Notify("RefundClaimed", period, workID, author, w.Deposit, RefundSubmissionTimeout)
}

// ClaimReviewerTimeoutRefund returns the review stake to the reviewer after
// the review refund horizon elapsed without the work's decryption ever
// completing. The stake is credited to the reviewer's escrow balance. It
// can be invoked by the reviewer only and succeeds at most once.
func ClaimReviewerTimeoutRefund(reviewer interop.Hash160, period int, workID int) {
	common.CheckOwnerWitness(reviewer)

	ctx := storage.GetContext()
	data := storage.Get(ctx, reviewKey(period, workID, reviewer))
	if data == nil {
		panic(ErrNoReview)
	}
	rv := std.Deserialize(data.([]byte)).(Review)

	if runtime.GetTime() <= rv.SubmittedAt+getConfig(ctx, ReviewRefundMsKey).(int) {
		panic(ErrTimeoutNotReached)
	}

	reqData := storage.Get(ctx, requestKey(period, workID))
	if reqData != nil {
		req := std.Deserialize(reqData.([]byte)).(DecryptionRequest)
		if req.Completed {
			panic(ErrDecryptionSucceeded)
		}
	}

	if rv.RefundClaimed {
		panic(ErrAlreadyClaimed)
	}

	rv.RefundClaimed = true
	common.SetSerialized(ctx, reviewKey(period, workID, reviewer), rv)
	common.Credit(ctx, balancePrefix, reviewer, rv.Stake)

	runtime.Notify("RefundClaimed", period, workID, reviewer, rv.Stake, RefundReviewerTimeout)
}

// IsRefundClaimable returns whether the claimer currently qualifies for the
// given refund kind on the work. Eligibility is passive: it becomes true by
// time alone once the relevant horizon elapses.
func IsRefundClaimable(kind int, period int, workID int, claimer interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()

	switch kind {
	case RefundDecryptionFailure:
		data := storage.Get(ctx, reviewKey(period, workID, claimer))
		if data == nil {
			return false
		}
		rv := std.Deserialize(data.([]byte)).(Review)
		return !rv.RefundClaimed && decryptionFailed(ctx, period, workID)
	case RefundSubmissionTimeout:
		data := storage.Get(ctx, workKey(period, workID))
		if data == nil {
			return false
		}
		w := std.Deserialize(data.([]byte)).(Work)
		return w.Author.Equals(claimer) && !w.Reviewed && !w.RefundClaimed &&
			runtime.GetTime() > w.SubmittedAt+getConfig(ctx, SubmissionRefundMsKey).(int)
	case RefundReviewerTimeout:
		data := storage.Get(ctx, reviewKey(period, workID, claimer))
		if data == nil {
			return false
		}
		rv := std.Deserialize(data.([]byte)).(Review)
		if rv.RefundClaimed ||
			runtime.GetTime() <= rv.SubmittedAt+getConfig(ctx, ReviewRefundMsKey).(int) {
			return false
		}
		reqData := storage.Get(ctx, requestKey(period, workID))
		if reqData == nil {
			return true
		}
		req := std.Deserialize(reqData.([]byte)).(DecryptionRequest)
		return !req.Completed
	default:
		panic("unknown refund kind")
	}
}

// CalculateResults stores decrypted aggregate scores on the period's works
// and creates one award per genre pointing at the first submitted work of
// that genre. It can be invoked by the operator only and only for a period
// already sealed for reviewing. Existing awards are left untouched.
func CalculateResults(period int) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	review := storage.Get(ctx, []byte{reviewPeriodKey}).(int)
	if period < 1 || period > review {
		panic(ErrInvalidPeriodTransition)
	}

	count := workCount(ctx, period)
	for id := 1; id <= count; id++ {
		reqData := storage.Get(ctx, requestKey(period, id))
		if reqData == nil {
			continue
		}
		req := std.Deserialize(reqData.([]byte)).(DecryptionRequest)
		if !req.Completed {
			continue
		}
		w := getWork(ctx, period, id)
		w.Score = req.Value
		w.HasScore = true
		common.SetSerialized(ctx, workKey(period, id), w)
	}

	for genre := 0; genre < genreCount; genre++ {
		if storage.Get(ctx, awardKey(period, genre)) != nil {
			continue
		}
		winner := 0
		for id := 1; id <= count; id++ {
			w := getWork(ctx, period, id)
			if w.Genre == genre && w.Submitted {
				winner = id
				break
			}
		}
		if winner == 0 {
			continue
		}
		a := Award{
			Genre:       genre,
			WorkID:      winner,
			Announced:   false,
			AnnouncedAt: 0,
		}
		common.SetSerialized(ctx, awardKey(period, genre), a)
	}

	runtime.Log("award results calculated")
}

// AnnounceAwards announces every not-yet-announced award of the period. It
// can be invoked by the operator only. Already announced awards are skipped
// without effect, so repeated invocations are idempotent.
func AnnounceAwards(period int) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	for genre := 0; genre < genreCount; genre++ {
		data := storage.Get(ctx, awardKey(period, genre))
		if data == nil {
			continue
		}
		a := std.Deserialize(data.([]byte)).(Award)
		if a.Announced {
			continue
		}
		a.Announced = true
		a.AnnouncedAt = runtime.GetTime()
		common.SetSerialized(ctx, awardKey(period, genre), a)

		runtime.Notify("AwardAnnounced", period, genre, a.WorkID)
	}
}

// GetAwards returns all award records of the period.
func GetAwards(period int) []Award {
	ctx := storage.GetReadOnlyContext()

	var awards []Award

	for genre := 0; genre < genreCount; genre++ {
		data := storage.Get(ctx, awardKey(period, genre))
		if data == nil {
			continue
		}
		awards = append(awards, std.Deserialize(data.([]byte)).(Award))
	}

	return awards
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkReviewPreconditions(ctx storage.Context, reviewer interop.Hash160, workID int, comments string, stake int) int {
	requireNotPaused(ctx)
	common.CheckOwnerWitness(reviewer)

	if submissionWindowOpen(ctx) {
		panic(ErrReviewWindowClosed)
	}
	if len(comments) > maxCommentsLen {
		panic(ErrInvalidInput)
	}

	registryAddr := storage.Get(ctx, []byte{registryContractKey}).(interop.Hash160)
	authorized := contract.Call(registryAddr, "isAuthorized", contract.ReadOnly, reviewer).(bool)
	if !authorized {
		panic(ErrNotAuthorizedReviewer)
	}

	period := storage.Get(ctx, []byte{reviewPeriodKey}).(int)
	if storage.Get(ctx, workKey(period, workID)) == nil {
		panic(ErrUnknownWork)
	}
	if storage.Get(ctx, reviewKey(period, workID, reviewer)) != nil {
		panic(ErrDuplicateReview)
	}
	if stake < getConfig(ctx, MinStakeKey).(int) {
		panic(ErrInsufficientStake)
	}

	return period
}

func storeReview(ctx storage.Context, period int, workID int, reviewer interop.Hash160, quality []byte, originality []byte, impact []byte, comments string, stake int) {
	common.Debit(ctx, balancePrefix, reviewer, stake)

	cipherAddr := cipherAddress(ctx)
	multiplier := multiplierFloor + runtime.GetRandom()%multiplierRange
	mh := contract.Call(cipherAddr, "encrypt", contract.All,
		runtime.GetExecutingScriptHash(), multiplier).([]byte)

	rv := Review{
		Reviewer:      reviewer,
		Quality:       quality,
		Originality:   originality,
		Impact:        impact,
		Multiplier:    mh,
		Stake:         stake,
		SubmittedAt:   runtime.GetTime(),
		Comments:      comments,
		RefundClaimed: false,
	}
	common.SetSerialized(ctx, reviewKey(period, workID, reviewer), rv)

	registryAddr := storage.Get(ctx, []byte{registryContractKey}).(interop.Hash160)
	contract.Call(registryAddr, "incrementReviewCount", contract.All, reviewer)

	runtime.Notify("ReviewSubmitted", period, workID, reviewer)
}

// aggregate folds all reviews of the work into one encrypted total of
// (quality + originality + impact) * multiplier per reviewer. Returns nil
// when the work has no reviews.
func aggregate(ctx storage.Context, cipherAddr interop.Hash160, period int, workID int) []byte {
	var total []byte

	it := storage.Find(ctx, reviewKeyPrefix(period, workID), storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		rv := iterator.Value(it).(Review)

		sum := contract.Call(cipherAddr, "add", contract.All, rv.Quality, rv.Originality).([]byte)
		sum = contract.Call(cipherAddr, "add", contract.All, sum, rv.Impact).([]byte)
		obfuscated := contract.Call(cipherAddr, "mul", contract.All, sum, rv.Multiplier).([]byte)

		if total == nil {
			total = obfuscated
		} else {
			total = contract.Call(cipherAddr, "add", contract.All, total, obfuscated).([]byte)
		}
	}

	return total
}

func decryptionFailed(ctx storage.Context, period int, workID int) bool {
	data := storage.Get(ctx, requestKey(period, workID))
	if data == nil {
		return false
	}
	req := std.Deserialize(data.([]byte)).(DecryptionRequest)
	if req.Failed {
		return true
	}
	if req.Completed {
		return false
	}
	return runtime.GetTime() > req.RequestedAt+getConfig(ctx, DecryptionTimeoutMsKey).(int)
}

func submissionWindowOpen(ctx storage.Context) bool {
	base := storage.Get(ctx, []byte{baseTimeKey}).(int)
	cycle := getConfig(ctx, CycleMsKey).(int)
	window := getConfig(ctx, SubmissionWindowMsKey).(int)
	phase := (runtime.GetTime() - base) % cycle
	return phase < window
}

func requireNotPaused(ctx storage.Context) {
	if isPaused(ctx) {
		panic(ErrPaused)
	}
}

func isPaused(ctx storage.Context) bool {
	data := storage.Get(ctx, []byte{pausedKey})
	if data == nil {
		return false
	}
	return data.(bool)
}

func operatorAddress(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{operatorKey}).(interop.Hash160)
}

func cipherAddress(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{cipherContractKey}).(interop.Hash160)
}

func accumulatedFees(ctx storage.Context) int {
	data := storage.Get(ctx, []byte{feesKey})
	if data == nil {
		return 0
	}
	return data.(int)
}

func workCount(ctx storage.Context, period int) int {
	data := storage.Get(ctx, workCounterKey(period))
	if data == nil {
		return 0
	}
	return data.(int)
}

func workCounterKey(period int) []byte {
	return append([]byte{workCounterPrefix}, common.U64Bytes(period)...)
}

func workKey(period int, id int) []byte {
	key := append([]byte{workPrefix}, common.U64Bytes(period)...)
	return append(key, common.U64Bytes(id)...)
}

func reviewKeyPrefix(period int, id int) []byte {
	key := append([]byte{reviewPrefix}, common.U64Bytes(period)...)
	return append(key, common.U64Bytes(id)...)
}

func reviewKey(period int, id int, reviewer interop.Hash160) []byte {
	return append(reviewKeyPrefix(period, id), reviewer...)
}

func requestKey(period int, id int) []byte {
	key := append([]byte{requestPrefix}, common.U64Bytes(period)...)
	return append(key, common.U64Bytes(id)...)
}

func awardKey(period int, genre int) []byte {
	key := append([]byte{awardPrefix}, common.U64Bytes(period)...)
	return append(key, common.U64Bytes(genre)...)
}

func getWork(ctx storage.Context, period int, id int) Work {
	data := storage.Get(ctx, workKey(period, id))
	if data == nil {
		panic(ErrUnknownWork)
	}
	return std.Deserialize(data.([]byte)).(Work)
}

func getRequest(ctx storage.Context, period int, id int) DecryptionRequest {
	data := storage.Get(ctx, requestKey(period, id))
	if data == nil {
		panic(ErrUnknownRequest)
	}
	return std.Deserialize(data.([]byte)).(DecryptionRequest)
}

func getConfig(ctx storage.Context, key any) any {
	postfix := key.([]byte)
	storageKey := append(configPrefix, postfix...)
	return storage.Get(ctx, storageKey)
}

func setConfig(ctx storage.Context, key, val any) {
	postfix := key.([]byte)
	storageKey := append(configPrefix, postfix...)
	storage.Put(ctx, storageKey, val)
}
