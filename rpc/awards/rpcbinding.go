package awards

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// AwardsWork is a contract-specific awards.Work type used by its methods.
type AwardsWork struct {
	Author        util.Uint160
	Title         string
	Genre         *big.Int
	ContentRef    string
	SubmittedAt   *big.Int
	Deposit       *big.Int
	Submitted     bool
	Reviewed      bool
	RefundClaimed bool
	Aggregate     []byte
	Score         *big.Int
	HasScore      bool
}

// AwardsReview is a contract-specific awards.Review type used by its methods.
type AwardsReview struct {
	Reviewer      util.Uint160
	Quality       []byte
	Originality   []byte
	Impact        []byte
	Multiplier    []byte
	Stake         *big.Int
	SubmittedAt   *big.Int
	Comments      string
	RefundClaimed bool
}

// AwardsDecryptionRequest is a contract-specific awards.DecryptionRequest type
// used by its methods.
type AwardsDecryptionRequest struct {
	ID          []byte
	Period      *big.Int
	WorkID      *big.Int
	Requester   util.Uint160
	RequestedAt *big.Int
	Completed   bool
	Failed      bool
	Value       *big.Int
}

// AwardsAward is a contract-specific awards.Award type used by its methods.
type AwardsAward struct {
	Genre       *big.Int
	WorkID      *big.Int
	Announced   bool
	AnnouncedAt *big.Int
}

// AwardsPeriodStats is a contract-specific awards.PeriodStats type used by its
// methods.
type AwardsPeriodStats struct {
	WorkCount   *big.Int
	ReviewCount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(acc util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", acc))
}

// Config invokes `config` method of contract.
func (c *ContractReader) Config(key []byte) (any, error) {
	return func(item stackitem.Item, err error) (any, error) {
		if err != nil {
			return nil, err
		}
		return item.Value(), nil
	}(unwrap.Item(c.invoker.Call(c.hash, "config", key)))
}

// IsPaused invokes `isPaused` method of contract.
func (c *ContractReader) IsPaused() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isPaused"))
}

// IsSubmissionWindowOpen invokes `isSubmissionWindowOpen` method of contract.
func (c *ContractReader) IsSubmissionWindowOpen() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isSubmissionWindowOpen"))
}

// IsReviewWindowOpen invokes `isReviewWindowOpen` method of contract.
func (c *ContractReader) IsReviewWindowOpen() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isReviewWindowOpen"))
}

// SubmissionPeriod invokes `submissionPeriod` method of contract.
func (c *ContractReader) SubmissionPeriod() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "submissionPeriod"))
}

// ReviewPeriod invokes `reviewPeriod` method of contract.
func (c *ContractReader) ReviewPeriod() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "reviewPeriod"))
}

// IsRefundClaimable invokes `isRefundClaimable` method of contract.
func (c *ContractReader) IsRefundClaimable(kind *big.Int, period *big.Int, workID *big.Int, claimer util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isRefundClaimable", kind, period, workID, claimer))
}

// GetWork invokes `getWork` method of contract.
func (c *ContractReader) GetWork(period *big.Int, workID *big.Int) (*AwardsWork, error) {
	return itemToAwardsWork(unwrap.Item(c.invoker.Call(c.hash, "getWork", period, workID)))
}

// GetReview invokes `getReview` method of contract.
func (c *ContractReader) GetReview(period *big.Int, workID *big.Int, reviewer util.Uint160) (*AwardsReview, error) {
	return itemToAwardsReview(unwrap.Item(c.invoker.Call(c.hash, "getReview", period, workID, reviewer)))
}

// GetDecryptionStatus invokes `getDecryptionStatus` method of contract.
func (c *ContractReader) GetDecryptionStatus(period *big.Int, workID *big.Int) (*AwardsDecryptionRequest, error) {
	return itemToAwardsDecryptionRequest(unwrap.Item(c.invoker.Call(c.hash, "getDecryptionStatus", period, workID)))
}

// GetPeriodStats invokes `getPeriodStats` method of contract.
func (c *ContractReader) GetPeriodStats(period *big.Int) (*AwardsPeriodStats, error) {
	return itemToAwardsPeriodStats(unwrap.Item(c.invoker.Call(c.hash, "getPeriodStats", period)))
}

// GetWorkReviewers invokes `getWorkReviewers` method of contract.
func (c *ContractReader) GetWorkReviewers(period *big.Int, workID *big.Int) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "getWorkReviewers", period, workID))
}

// GetAwards invokes `getAwards` method of contract.
func (c *ContractReader) GetAwards(period *big.Int) ([]*AwardsAward, error) {
	items, err := unwrap.Array(c.invoker.Call(c.hash, "getAwards", period))
	if err != nil {
		return nil, err
	}
	res := make([]*AwardsAward, len(items))
	for i := range items {
		res[i], err = itemToAwardsAward(items[i], nil)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// Works invokes `works` method of contract.
func (c *ContractReader) Works(period *big.Int) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "works", period))
}

// WorksExpanded is similar to Works (uses the same contract method), but can
// be useful if the server used doesn't support sessions and doesn't expand
// iterators. It creates a script that will get the specified number of result
// items from the iterator right in the VM and return them to you. It's only
// limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) WorksExpanded(period *big.Int, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "works", _numOfIteratorItems, period))
}

// SubmitWork creates a transaction invoking `submitWork` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitWork(author util.Uint160, title string, genre *big.Int, contentRef string, deposit *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitWork", author, title, genre, contentRef, deposit)
}

// SubmitReview creates a transaction invoking `submitReview` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitReview(reviewer util.Uint160, workID *big.Int, quality *big.Int, originality *big.Int, impact *big.Int, comments string, stake *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitReview", reviewer, workID, quality, originality, impact, comments, stake)
}

// SubmitEncryptedReview creates a transaction invoking `submitEncryptedReview` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitEncryptedReview(reviewer util.Uint160, workID *big.Int, quality []byte, originality []byte, impact []byte, comments string, stake *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitEncryptedReview", reviewer, workID, quality, originality, impact, comments, stake)
}

// RequestDecryption creates a transaction invoking `requestDecryption` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RequestDecryption(period *big.Int, workID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "requestDecryption", period, workID)
}

// OnDecryptionCallback creates a transaction invoking `onDecryptionCallback` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) OnDecryptionCallback(requestID []byte, value *big.Int, proof []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "onDecryptionCallback", requestID, value, proof)
}

// MarkDecryptionFailed creates a transaction invoking `markDecryptionFailed` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) MarkDecryptionFailed(period *big.Int, workID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "markDecryptionFailed", period, workID)
}

// ClaimDecryptionFailureRefund creates a transaction invoking `claimDecryptionFailureRefund` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ClaimDecryptionFailureRefund(reviewer util.Uint160, period *big.Int, workID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claimDecryptionFailureRefund", reviewer, period, workID)
}

// ClaimSubmissionTimeoutRefund creates a transaction invoking `claimSubmissionTimeoutRefund` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ClaimSubmissionTimeoutRefund(author util.Uint160, period *big.Int, workID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claimSubmissionTimeoutRefund", author, period, workID)
}

// ClaimReviewerTimeoutRefund creates a transaction invoking `claimReviewerTimeoutRefund` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ClaimReviewerTimeoutRefund(reviewer util.Uint160, period *big.Int, workID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claimReviewerTimeoutRefund", reviewer, period, workID)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(acc util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", acc, amount)
}

// AnnounceAwards creates a transaction invoking `announceAwards` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AnnounceAwards(period *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "announceAwards", period)
}

// CalculateResults creates a transaction invoking `calculateResults` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CalculateResults(period *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "calculateResults", period)
}

func itemToAwardsWork(item stackitem.Item, err error) (*AwardsWork, error) {
	if err != nil {
		return nil, err
	}
	var res = new(AwardsWork)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of AwardsWork from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *AwardsWork) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 12 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Author, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Author: %w", err)
	}

	index++
	res.Title, err = stringFromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	index++
	res.Genre, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Genre: %w", err)
	}

	index++
	res.ContentRef, err = stringFromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field ContentRef: %w", err)
	}

	index++
	res.SubmittedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SubmittedAt: %w", err)
	}

	index++
	res.Deposit, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deposit: %w", err)
	}

	index++
	res.Submitted, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Submitted: %w", err)
	}

	index++
	res.Reviewed, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Reviewed: %w", err)
	}

	index++
	res.RefundClaimed, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field RefundClaimed: %w", err)
	}

	index++
	res.Aggregate, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Aggregate: %w", err)
	}

	index++
	res.Score, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Score: %w", err)
	}

	index++
	res.HasScore, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field HasScore: %w", err)
	}

	return nil
}

func itemToAwardsReview(item stackitem.Item, err error) (*AwardsReview, error) {
	if err != nil {
		return nil, err
	}
	var res = new(AwardsReview)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of AwardsReview from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *AwardsReview) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 9 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Reviewer, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Reviewer: %w", err)
	}

	index++
	res.Quality, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Quality: %w", err)
	}

	index++
	res.Originality, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Originality: %w", err)
	}

	index++
	res.Impact, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Impact: %w", err)
	}

	index++
	res.Multiplier, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Multiplier: %w", err)
	}

	index++
	res.Stake, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Stake: %w", err)
	}

	index++
	res.SubmittedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SubmittedAt: %w", err)
	}

	index++
	res.Comments, err = stringFromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Comments: %w", err)
	}

	index++
	res.RefundClaimed, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field RefundClaimed: %w", err)
	}

	return nil
}

func itemToAwardsDecryptionRequest(item stackitem.Item, err error) (*AwardsDecryptionRequest, error) {
	if err != nil {
		return nil, err
	}
	var res = new(AwardsDecryptionRequest)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of AwardsDecryptionRequest from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *AwardsDecryptionRequest) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 8 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Period, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Period: %w", err)
	}

	index++
	res.WorkID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field WorkID: %w", err)
	}

	index++
	res.Requester, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Requester: %w", err)
	}

	index++
	res.RequestedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field RequestedAt: %w", err)
	}

	index++
	res.Completed, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Completed: %w", err)
	}

	index++
	res.Failed, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Failed: %w", err)
	}

	index++
	res.Value, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	return nil
}

func itemToAwardsAward(item stackitem.Item, err error) (*AwardsAward, error) {
	if err != nil {
		return nil, err
	}
	var res = new(AwardsAward)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of AwardsAward from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *AwardsAward) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Genre, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Genre: %w", err)
	}

	index++
	res.WorkID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field WorkID: %w", err)
	}

	index++
	res.Announced, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Announced: %w", err)
	}

	index++
	res.AnnouncedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field AnnouncedAt: %w", err)
	}

	return nil
}

func itemToAwardsPeriodStats(item stackitem.Item, err error) (*AwardsPeriodStats, error) {
	if err != nil {
		return nil, err
	}
	var res = new(AwardsPeriodStats)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of AwardsPeriodStats from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *AwardsPeriodStats) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.WorkCount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field WorkCount: %w", err)
	}

	index++
	res.ReviewCount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReviewCount: %w", err)
	}

	return nil
}

func uint160FromItem(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

func stringFromItem(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}
