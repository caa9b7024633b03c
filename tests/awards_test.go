package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/veilpress/veilpress-contract/awards"
	"github.com/veilpress/veilpress-contract/common"
)

func TestAwardsDeployConfig(t *testing.T) {
	p := newPlatform(t, "SomeKey", int64(42), awards.MinDepositKey, int64(7))
	p.awards.Invoke(t, stackitem.NewByteArray(bigint.ToBytes(big.NewInt(42))),
		"config", "SomeKey")
	p.awards.Invoke(t, stackitem.NewByteArray(bigint.ToBytes(big.NewInt(7))),
		"config", awards.MinDepositKey)

	acc := p.e.NewAccount(t)
	p.awards.WithSigners(acc).InvokeFail(t, common.ErrOperatorWitnessFailed,
		"setConfig", "SomeKey", int64(1))
	p.awards.Invoke(t, stackitem.Null{}, "setConfig", "SomeKey", int64(1))
	p.awards.Invoke(t, stackitem.NewByteArray(bigint.ToBytes(big.NewInt(1))),
		"config", "SomeKey")

	require.Equal(t, bigint.ToBytes(big.NewInt(1)),
		listConfigRecord(t, p.awards, "SomeKey"))
	require.Equal(t, bigint.ToBytes(big.NewInt(7)),
		listConfigRecord(t, p.awards, awards.MinDepositKey))
}

func TestAwardsVerify(t *testing.T) {
	p := newPlatform(t)
	testVerify(t, p.awards)
}

func TestAwardsDeposit(t *testing.T) {
	p := newPlatform(t)
	acc := p.e.NewAccount(t)

	gasInv := p.e.NewInvoker(p.e.NativeHash(t, nativenames.Gas), acc)
	tx := gasInv.PrepareInvoke(t, "transfer",
		acc.ScriptHash(), p.awardsHash, int64(3_0000_0000), nil)
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash(), stackitem.NewBool(true))
	require.NotNil(t, findEvent(aer, "Deposit"))

	p.awards.Invoke(t, stackitem.Make(3_0000_0000), "balanceOf", acc.ScriptHash())

	t.Run("deposit to another account", func(t *testing.T) {
		rcv := p.e.NewAccount(t)
		gasInv.Invoke(t, true, "transfer",
			acc.ScriptHash(), p.awardsHash, int64(1_0000_0000), rcv.ScriptHash())
		p.awards.Invoke(t, stackitem.Make(1_0000_0000), "balanceOf", rcv.ScriptHash())
	})
}

func TestAwardsWithdraw(t *testing.T) {
	p := newPlatform(t)
	acc := p.e.NewAccount(t)
	p.depositGAS(t, p.awardsHash, acc, 3_0000_0000)

	cAcc := p.awards.WithSigners(acc)
	cAcc.InvokeFail(t, common.ErrInsufficientBalance, "withdraw",
		acc.ScriptHash(), int64(4_0000_0000))

	other := p.e.NewAccount(t)
	p.awards.WithSigners(other).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"withdraw", acc.ScriptHash(), int64(1_0000_0000))

	tx := cAcc.PrepareInvoke(t, "withdraw", acc.ScriptHash(), int64(1_0000_0000))
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	require.NotNil(t, findEvent(aer, "Withdrawal"))

	p.awards.Invoke(t, stackitem.Make(2_0000_0000), "balanceOf", acc.ScriptHash())
}

func TestSubmitWork(t *testing.T) {
	p := newPlatform(t)
	author := p.e.NewAccount(t)
	p.depositGAS(t, p.awardsHash, author, 5_0000_0000)

	cAuthor := p.awards.WithSigners(author)
	other := p.e.NewAccount(t)
	p.awards.WithSigners(other).InvokeFail(t, common.ErrOwnerWitnessFailed, "submitWork",
		author.ScriptHash(), "Title", int64(0), "ref", int64(workDeposit))

	cAuthor.InvokeFail(t, awards.ErrInvalidInput, "submitWork",
		author.ScriptHash(), "", int64(0), "ref", int64(workDeposit))
	cAuthor.InvokeFail(t, awards.ErrInvalidInput, "submitWork",
		author.ScriptHash(), "Title", int64(0), "", int64(workDeposit))
	cAuthor.InvokeFail(t, awards.ErrInvalidInput, "submitWork",
		author.ScriptHash(), "Title", int64(5), "ref", int64(workDeposit))
	cAuthor.InvokeFail(t, awards.ErrInsufficientDeposit, "submitWork",
		author.ScriptHash(), "Title", int64(0), "ref", int64(workDeposit-1))
	p.awards.WithSigners(other).InvokeFail(t, common.ErrInsufficientBalance, "submitWork",
		other.ScriptHash(), "Title", int64(0), "ref", int64(workDeposit))

	tx := cAuthor.PrepareInvoke(t, "submitWork",
		author.ScriptHash(), "Sister Cities", int64(1), "arweave:x91", int64(workDeposit))
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash(), stackitem.Make(1))
	require.NotNil(t, findEvent(aer, "WorkSubmitted"))

	tx = cAuthor.PrepareInvoke(t, "submitWork",
		author.ScriptHash(), "Dry Season", int64(1), "arweave:x92", int64(workDeposit))
	p.e.AddNewBlock(t, tx)
	p.e.CheckHalt(t, tx.Hash(), stackitem.Make(2))

	p.awards.Invoke(t, stackitem.Make(5_0000_0000-2*(workDeposit+platformFee)),
		"balanceOf", author.ScriptHash())

	s, err := p.awards.TestInvoke(t, "getPeriodStats", int64(1))
	require.NoError(t, err)
	stats := s.Pop().Array()
	require.Equal(t, big.NewInt(2), stats[0].Value())
	require.Equal(t, big.NewInt(0), stats[1].Value())

	s, err = p.awards.TestInvoke(t, "getWork", int64(1), int64(1))
	require.NoError(t, err)
	work := s.Pop().Array()
	authorBytes, err := work[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, author.ScriptHash().BytesBE(), authorBytes)

	_, err = p.awards.TestInvoke(t, "getWork", int64(1), int64(3))
	require.Error(t, err)

	p.awards.Invoke(t, stackitem.Null{}, "setConfig", awards.SubmissionWindowMsKey, int64(0))
	cAuthor.InvokeFail(t, awards.ErrWindowClosed, "submitWork",
		author.ScriptHash(), "Title", int64(0), "ref", int64(workDeposit))
}

func TestAwardsPause(t *testing.T) {
	p := newPlatform(t)
	acc := p.e.NewAccount(t)

	p.awards.WithSigners(acc).InvokeFail(t, common.ErrOperatorWitnessFailed,
		"setPaused", true)

	p.awards.Invoke(t, stackitem.Null{}, "setPaused", true)
	p.awards.Invoke(t, stackitem.NewBool(true), "isPaused")

	p.depositGAS(t, p.awardsHash, acc, 3_0000_0000)
	p.awards.WithSigners(acc).InvokeFail(t, awards.ErrPaused, "submitWork",
		acc.ScriptHash(), "Title", int64(0), "ref", int64(workDeposit))

	// withdrawals stay available while paused
	p.awards.WithSigners(acc).Invoke(t, stackitem.Null{}, "withdraw",
		acc.ScriptHash(), int64(1_0000_0000))

	p.awards.Invoke(t, stackitem.Null{}, "setPaused", false)
	p.awards.Invoke(t, stackitem.NewBool(false), "isPaused")
	p.awards.WithSigners(acc).Invoke(t, stackitem.Make(1), "submitWork",
		acc.ScriptHash(), "Title", int64(0), "ref", int64(workDeposit))
}

func TestPeriodTransitions(t *testing.T) {
	p := newPlatform(t)
	acc := p.e.NewAccount(t)

	p.awards.WithSigners(acc).InvokeFail(t, common.ErrOperatorWitnessFailed,
		"advanceSubmissionPeriod")
	p.awards.InvokeFail(t, awards.ErrInvalidPeriodTransition, "advanceReviewPeriod")

	p.awards.Invoke(t, stackitem.NewBool(true), "isSubmissionWindowOpen")
	p.awards.Invoke(t, stackitem.NewBool(false), "isReviewWindowOpen")

	p.awards.Invoke(t, stackitem.Null{}, "advanceSubmissionPeriod")
	p.awards.Invoke(t, stackitem.Make(2), "submissionPeriod")
	p.awards.Invoke(t, stackitem.Make(0), "reviewPeriod")

	p.awards.Invoke(t, stackitem.Null{}, "setConfig", awards.SubmissionWindowMsKey, int64(0))
	p.awards.Invoke(t, stackitem.NewBool(false), "isSubmissionWindowOpen")
	p.awards.Invoke(t, stackitem.NewBool(true), "isReviewWindowOpen")

	p.awards.InvokeFail(t, awards.ErrInvalidPeriodTransition, "advanceSubmissionPeriod")

	p.awards.Invoke(t, stackitem.Null{}, "advanceReviewPeriod")
	p.awards.Invoke(t, stackitem.Make(2), "reviewPeriod")
	p.awards.InvokeFail(t, awards.ErrInvalidPeriodTransition, "advanceReviewPeriod")
}

func TestSubmitReview(t *testing.T) {
	p := newPlatform(t)
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 1)

	reviewer := p.newReviewer(t)
	p.depositGAS(t, p.awardsHash, reviewer, 2_0000_0000)
	cRev := p.awards.WithSigners(reviewer)

	cRev.InvokeFail(t, awards.ErrReviewWindowClosed, "submitReview",
		reviewer.ScriptHash(), workID, int64(80), int64(90), int64(70), "", int64(reviewStake))

	p.openReviewWindow(t)

	stranger := p.e.NewAccount(t)
	p.depositGAS(t, p.awardsHash, stranger, 1_0000_0000)
	p.awards.WithSigners(stranger).InvokeFail(t, awards.ErrNotAuthorizedReviewer, "submitReview",
		stranger.ScriptHash(), workID, int64(80), int64(90), int64(70), "", int64(reviewStake))

	cRev.InvokeFail(t, awards.ErrScoreOutOfRange, "submitReview",
		reviewer.ScriptHash(), workID, int64(0), int64(90), int64(70), "", int64(reviewStake))
	cRev.InvokeFail(t, awards.ErrScoreOutOfRange, "submitReview",
		reviewer.ScriptHash(), workID, int64(80), int64(101), int64(70), "", int64(reviewStake))
	cRev.InvokeFail(t, awards.ErrUnknownWork, "submitReview",
		reviewer.ScriptHash(), int64(99), int64(80), int64(90), int64(70), "", int64(reviewStake))
	cRev.InvokeFail(t, awards.ErrInsufficientStake, "submitReview",
		reviewer.ScriptHash(), workID, int64(80), int64(90), int64(70), "", int64(reviewStake-1))

	tx := cRev.PrepareInvoke(t, "submitReview",
		reviewer.ScriptHash(), workID, int64(80), int64(90), int64(70), "clean prose", int64(reviewStake))
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	require.NotNil(t, findEvent(aer, "ReviewSubmitted"))

	cRev.InvokeFail(t, awards.ErrDuplicateReview, "submitReview",
		reviewer.ScriptHash(), workID, int64(80), int64(90), int64(70), "", int64(reviewStake))

	s, err := p.awards.TestInvoke(t, "getWorkReviewers", int64(1), workID)
	require.NoError(t, err)
	reviewers := s.Pop().Array()
	require.Len(t, reviewers, 1)
	rb, err := reviewers[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, reviewer.ScriptHash().BytesBE(), rb)

	// review counter bumped in the registry
	s, err = p.registry.TestInvoke(t, "getReviewerProfile", reviewer.ScriptHash())
	require.NoError(t, err)
	profile := s.Pop().Array()
	require.Equal(t, big.NewInt(1), profile[4].Value())

	// reviewer can reveal their own score handles
	s, err = p.awards.TestInvoke(t, "getReview", int64(1), workID, reviewer.ScriptHash())
	require.NoError(t, err)
	review := s.Pop().Array()
	qh, err := review[1].TryBytes()
	require.NoError(t, err)
	item := signedInvoke(t, p.e, p.cipher.WithSigners(reviewer),
		"reveal", qh, reviewer.ScriptHash())
	sq, err := item.TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 80, sq.Int64())
}

func TestSubmitReviewBoundaryScores(t *testing.T) {
	p := newPlatform(t)
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 0)

	reviewer := p.newReviewer(t)
	p.openReviewWindow(t)
	p.submitReview(t, reviewer, workID, 1, 100, 1)

	// the extremes pass the range check and survive the round trip
	s, err := p.awards.TestInvoke(t, "getReview", int64(1), workID, reviewer.ScriptHash())
	require.NoError(t, err)
	review := s.Pop().Array()

	qh, err := review[1].TryBytes()
	require.NoError(t, err)
	require.EqualValues(t, 1, p.reveal(t, qh))

	oh, err := review[2].TryBytes()
	require.NoError(t, err)
	require.EqualValues(t, 100, p.reveal(t, oh))
}

func TestSubmitEncryptedReview(t *testing.T) {
	p := newPlatform(t)
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 2)

	reviewer := p.newReviewer(t)
	p.depositGAS(t, p.awardsHash, reviewer, 2_0000_0000)
	p.openReviewWindow(t)

	encrypt := func(value int64) []byte {
		tx := p.cipher.WithSigners(reviewer).PrepareInvoke(t, "encrypt",
			reviewer.ScriptHash(), value)
		p.e.AddNewBlock(t, tx)
		aer := p.e.CheckHalt(t, tx.Hash())
		h, err := aer.Stack[0].TryBytes()
		require.NoError(t, err)
		return h
	}

	q, o, i := encrypt(55), encrypt(60), encrypt(65)
	bad := encrypt(101)

	cRev := p.awards.WithSigners(reviewer)
	cRev.InvokeFail(t, awards.ErrScoreOutOfRange, "submitEncryptedReview",
		reviewer.ScriptHash(), workID, q, o, bad, "", int64(reviewStake))

	cRev.Invoke(t, stackitem.Null{}, "submitEncryptedReview",
		reviewer.ScriptHash(), workID, q, o, i, "dense middle act", int64(reviewStake))

	cRev.InvokeFail(t, awards.ErrDuplicateReview, "submitEncryptedReview",
		reviewer.ScriptHash(), workID, q, o, i, "", int64(reviewStake))

	// the contract granted itself access to the reviewer-owned handles at
	// submission time, so the operator-driven aggregation works without
	// the reviewer's witness
	reqID := p.requestDecryption(t, 1, workID)
	value := p.completeDecryption(t, 1, workID, reqID)
	m := p.reveal(t, p.reviewMultiplier(t, 1, workID, reviewer))
	require.EqualValues(t, (55+60+65)*m, value)
}

func TestAggregateWeightedByMultiplier(t *testing.T) {
	p := newPlatform(t)
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 3)

	first := p.newReviewer(t)
	second := p.newReviewer(t)
	p.openReviewWindow(t)
	p.submitReview(t, first, workID, 80, 90, 70)
	p.submitReview(t, second, workID, 20, 20, 20)

	reqID := p.requestDecryption(t, 1, workID)
	value := p.completeDecryption(t, 1, workID, reqID)

	m1 := p.reveal(t, p.reviewMultiplier(t, 1, workID, first))
	m2 := p.reveal(t, p.reviewMultiplier(t, 1, workID, second))
	for _, m := range []int64{m1, m2} {
		require.GreaterOrEqual(t, m, int64(100))
		require.Less(t, m, int64(1000))
	}

	// each reviewer's category total is weighted by that reviewer's own
	// multiplier before accumulation, not folded into a plain sum
	require.EqualValues(t, 240*m1+60*m2, value)
}

func TestDecryptionPipeline(t *testing.T) {
	p := newPlatform(t)
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 1)
	plainWork := p.submitWork(t, author, 0)

	reviewer := p.newReviewer(t)
	p.openReviewWindow(t)
	p.submitReview(t, reviewer, workID, 80, 90, 70)

	p.awards.WithSigners(author).InvokeFail(t, common.ErrOperatorWitnessFailed,
		"requestDecryption", int64(1), workID)
	p.awards.InvokeFail(t, awards.ErrNoReviews, "requestDecryption", int64(1), plainWork)
	p.awards.InvokeFail(t, awards.ErrUnknownWork, "requestDecryption", int64(1), int64(99))

	reqID := p.requestDecryption(t, 1, workID)
	p.awards.InvokeFail(t, awards.ErrDuplicateRequest, "requestDecryption", int64(1), workID)

	s, err := p.awards.TestInvoke(t, "getDecryptionStatus", int64(1), workID)
	require.NoError(t, err)
	status := s.Pop().Array()
	require.Equal(t, false, status[5].Value()) // not completed
	require.Equal(t, false, status[6].Value()) // not failed

	p.awards.WithSigners(p.oracle).InvokeFail(t, awards.ErrUnknownRequest,
		"onDecryptionCallback", randomBytes(32), int64(1), randomBytes(32))

	value := p.reveal(t, p.workAggregate(t, 1, workID))
	require.Zero(t, value%240, "aggregate must be a multiple of the category sum")
	multiplier := value / 240
	require.True(t, multiplier >= 100 && multiplier < 1000)

	p.awards.WithSigners(p.oracle).InvokeFail(t, awards.ErrInvalidProof,
		"onDecryptionCallback", reqID, value, randomBytes(32))
	// valid proof without the oracle witness fails closed
	p.awards.WithSigners(author).InvokeFail(t, awards.ErrInvalidProof,
		"onDecryptionCallback", reqID, value, decryptionProof(reqID, value))

	proof := decryptionProof(reqID, value)
	tx := p.awards.WithSigners(p.oracle).PrepareInvoke(t,
		"onDecryptionCallback", reqID, value, proof)
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	ev := findEvent(aer, "ScoreDecrypted")
	require.NotNil(t, ev)

	p.awards.WithSigners(p.oracle).InvokeFail(t, awards.ErrAlreadyFinalized,
		"onDecryptionCallback", reqID, value, proof)

	s, err = p.awards.TestInvoke(t, "getDecryptionStatus", int64(1), workID)
	require.NoError(t, err)
	status = s.Pop().Array()
	require.Equal(t, true, status[5].Value())
	require.Equal(t, big.NewInt(value), status[7].Value())

	p.awards.InvokeFail(t, awards.ErrInvalidPeriodTransition, "calculateResults", int64(2))
	p.awards.Invoke(t, stackitem.Null{}, "calculateResults", int64(1))

	s, err = p.awards.TestInvoke(t, "getWork", int64(1), workID)
	require.NoError(t, err)
	work := s.Pop().Array()
	require.Equal(t, big.NewInt(value), work[10].Value())
	require.Equal(t, true, work[11].Value())

	tx = p.awards.PrepareInvoke(t, "announceAwards", int64(1))
	p.e.AddNewBlock(t, tx)
	aer = p.e.CheckHalt(t, tx.Hash())
	require.NotNil(t, findEvent(aer, "AwardAnnounced"))

	// repeated announcement has no effect
	tx = p.awards.PrepareInvoke(t, "announceAwards", int64(1))
	p.e.AddNewBlock(t, tx)
	aer = p.e.CheckHalt(t, tx.Hash())
	require.Nil(t, findEvent(aer, "AwardAnnounced"))

	s, err = p.awards.TestInvoke(t, "getAwards", int64(1))
	require.NoError(t, err)
	require.Len(t, s.Pop().Array(), 2)
}

func TestMarkDecryptionFailed(t *testing.T) {
	t.Run("timeout not reached", func(t *testing.T) {
		p := newPlatform(t)
		author := p.e.NewAccount(t)
		workID := p.submitWork(t, author, 0)
		reviewer := p.newReviewer(t)
		p.openReviewWindow(t)
		p.submitReview(t, reviewer, workID, 50, 50, 50)
		p.requestDecryption(t, 1, workID)

		p.awards.InvokeFail(t, awards.ErrTimeoutNotReached,
			"markDecryptionFailed", int64(1), workID)
	})

	p := newPlatform(t, awards.DecryptionTimeoutMsKey, int64(0))
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 0)
	reviewer := p.newReviewer(t)
	p.openReviewWindow(t)
	p.submitReview(t, reviewer, workID, 50, 50, 50)
	reqID := p.requestDecryption(t, 1, workID)

	p.awards.WithSigners(author).InvokeFail(t, common.ErrOperatorWitnessFailed,
		"markDecryptionFailed", int64(1), workID)
	p.awards.InvokeFail(t, awards.ErrUnknownRequest, "markDecryptionFailed", int64(1), int64(99))

	tx := p.awards.PrepareInvoke(t, "markDecryptionFailed", int64(1), workID)
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	require.NotNil(t, findEvent(aer, "ScoreDecryptionFailed"))

	p.awards.InvokeFail(t, awards.ErrAlreadyFinalized, "markDecryptionFailed", int64(1), workID)

	// even a valid late callback is rejected
	value := p.reveal(t, p.workAggregate(t, 1, workID))
	p.awards.WithSigners(p.oracle).InvokeFail(t, awards.ErrAlreadyFinalized,
		"onDecryptionCallback", reqID, value, decryptionProof(reqID, value))
}

func TestClaimDecryptionFailureRefund(t *testing.T) {
	p := newPlatform(t, awards.DecryptionTimeoutMsKey, int64(0))
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 0)
	reviewer := p.newReviewer(t)
	p.openReviewWindow(t)
	p.submitReview(t, reviewer, workID, 50, 50, 50)

	cRev := p.awards.WithSigners(reviewer)
	cRev.InvokeFail(t, awards.ErrNotFailed, "claimDecryptionFailureRefund",
		reviewer.ScriptHash(), int64(1), workID)

	p.requestDecryption(t, 1, workID)

	// pending past the timeout qualifies without an explicit failure mark
	p.awards.Invoke(t, stackitem.NewBool(true), "isRefundClaimable",
		int64(0), int64(1), workID, reviewer.ScriptHash())

	stranger := p.e.NewAccount(t)
	p.awards.WithSigners(stranger).InvokeFail(t, awards.ErrNoReview,
		"claimDecryptionFailureRefund", stranger.ScriptHash(), int64(1), workID)

	tx := cRev.PrepareInvoke(t, "claimDecryptionFailureRefund",
		reviewer.ScriptHash(), int64(1), workID)
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	require.NotNil(t, findEvent(aer, "RefundClaimed"))

	p.awards.Invoke(t, stackitem.Make(reviewStake), "balanceOf", reviewer.ScriptHash())

	cRev.InvokeFail(t, awards.ErrAlreadyClaimed, "claimDecryptionFailureRefund",
		reviewer.ScriptHash(), int64(1), workID)
	p.awards.Invoke(t, stackitem.NewBool(false), "isRefundClaimable",
		int64(0), int64(1), workID, reviewer.ScriptHash())
}

func TestClaimSubmissionTimeoutRefund(t *testing.T) {
	t.Run("timeout not reached", func(t *testing.T) {
		p := newPlatform(t)
		author := p.e.NewAccount(t)
		workID := p.submitWork(t, author, 0)
		p.awards.WithSigners(author).InvokeFail(t, awards.ErrTimeoutNotReached,
			"claimSubmissionTimeoutRefund", author.ScriptHash(), int64(1), workID)
	})

	p := newPlatform(t, awards.SubmissionRefundMsKey, int64(0))
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 0)

	other := p.e.NewAccount(t)
	p.awards.WithSigners(other).InvokeFail(t, awards.ErrNotSubmitter,
		"claimSubmissionTimeoutRefund", other.ScriptHash(), int64(1), workID)

	p.awards.Invoke(t, stackitem.NewBool(true), "isRefundClaimable",
		int64(1), int64(1), workID, author.ScriptHash())

	tx := p.awards.WithSigners(author).PrepareInvoke(t,
		"claimSubmissionTimeoutRefund", author.ScriptHash(), int64(1), workID)
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	require.NotNil(t, findEvent(aer, "RefundClaimed"))

	// the deposit is back, the platform fee is not
	p.awards.Invoke(t, stackitem.Make(workDeposit), "balanceOf", author.ScriptHash())

	p.awards.WithSigners(author).InvokeFail(t, awards.ErrAlreadyClaimed,
		"claimSubmissionTimeoutRefund", author.ScriptHash(), int64(1), workID)
}

func TestClaimReviewerTimeoutRefund(t *testing.T) {
	t.Run("decryption succeeded", func(t *testing.T) {
		p := newPlatform(t, awards.ReviewRefundMsKey, int64(0))
		author := p.e.NewAccount(t)
		workID := p.submitWork(t, author, 0)
		reviewer := p.newReviewer(t)
		p.openReviewWindow(t)
		p.submitReview(t, reviewer, workID, 50, 50, 50)
		reqID := p.requestDecryption(t, 1, workID)
		p.completeDecryption(t, 1, workID, reqID)

		p.awards.WithSigners(reviewer).InvokeFail(t, awards.ErrDecryptionSucceeded,
			"claimReviewerTimeoutRefund", reviewer.ScriptHash(), int64(1), workID)
		p.awards.Invoke(t, stackitem.NewBool(false), "isRefundClaimable",
			int64(2), int64(1), workID, reviewer.ScriptHash())
	})

	p := newPlatform(t, awards.ReviewRefundMsKey, int64(0))
	author := p.e.NewAccount(t)
	workID := p.submitWork(t, author, 0)
	reviewer := p.newReviewer(t)
	p.openReviewWindow(t)
	p.submitReview(t, reviewer, workID, 50, 50, 50)

	p.awards.WithSigners(reviewer).InvokeFail(t, awards.ErrNoReview,
		"claimReviewerTimeoutRefund", reviewer.ScriptHash(), int64(1), int64(99))

	p.awards.Invoke(t, stackitem.NewBool(true), "isRefundClaimable",
		int64(2), int64(1), workID, reviewer.ScriptHash())

	tx := p.awards.WithSigners(reviewer).PrepareInvoke(t,
		"claimReviewerTimeoutRefund", reviewer.ScriptHash(), int64(1), workID)
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	require.NotNil(t, findEvent(aer, "RefundClaimed"))

	p.awards.Invoke(t, stackitem.Make(reviewStake), "balanceOf", reviewer.ScriptHash())

	p.awards.WithSigners(reviewer).InvokeFail(t, awards.ErrAlreadyClaimed,
		"claimReviewerTimeoutRefund", reviewer.ScriptHash(), int64(1), workID)
}

func TestWithdrawFees(t *testing.T) {
	p := newPlatform(t)
	author := p.e.NewAccount(t)
	p.submitWork(t, author, 0)

	acc := p.e.NewAccount(t)
	p.awards.WithSigners(acc).InvokeFail(t, common.ErrOperatorWitnessFailed,
		"withdrawFees", acc.ScriptHash())

	tx := p.awards.PrepareInvoke(t, "withdrawFees", acc.ScriptHash())
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	require.NotNil(t, findEvent(aer, "FeesWithdrawn"))

	p.awards.InvokeFail(t, "no accumulated fees", "withdrawFees", acc.ScriptHash())
}
