// Package bounty contains RPC wrappers for the Code Review Bounty contract.
package bounty

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Bounty is a contract-specific bounty.Bounty type used by its methods.
type Bounty struct {
	ID           *big.Int
	Creator      util.Uint160
	Description  string
	RepoLink     string
	Amount       *big.Int
	Deadline     *big.Int
	Active       bool
	Paid         bool
	// Winner is empty until the bounty is paid with at least one review.
	Winner       []byte
	TotalReviews *big.Int
}

// Review is a contract-specific bounty.Review type used by its methods.
type Review struct {
	ID          *big.Int
	BountyID    *big.Int
	Reviewer    util.Uint160
	Content     string
	SubmittedAt *big.Int
	Votes       *big.Int
	Active      bool
}

// BountyCreatedEvent represents "BountyCreated" event emitted by the contract.
type BountyCreatedEvent struct {
	BountyID *big.Int
	Creator  util.Uint160
	Amount   *big.Int
	Deadline *big.Int
}

// ReviewSubmittedEvent represents "ReviewSubmitted" event emitted by the contract.
type ReviewSubmittedEvent struct {
	BountyID *big.Int
	ReviewID *big.Int
	Reviewer util.Uint160
}

// VoteCastEvent represents "VoteCast" event emitted by the contract.
type VoteCastEvent struct {
	BountyID *big.Int
	ReviewID *big.Int
	Voter    util.Uint160
}

// BountyPaidEvent represents "BountyPaid" event emitted by the contract.
type BountyPaidEvent struct {
	BountyID *big.Int
	Winner   util.Uint160
	Amount   *big.Int
}

// BountyRefundedEvent represents "BountyRefunded" event emitted by the contract.
type BountyRefundedEvent struct {
	BountyID *big.Int
	Creator  util.Uint160
	Amount   *big.Int
}

// FeePercentSetEvent represents "FeePercentSet" event emitted by the contract.
type FeePercentSetEvent struct {
	FeePercent *big.Int
}

// SweptEvent represents "Swept" event emitted by the contract.
type SweptEvent struct {
	Admin  util.Uint160
	Amount *big.Int
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

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
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

// GetBounty invokes `getBounty` method of contract.
func (c *ContractReader) GetBounty(bountyID *big.Int) (*Bounty, error) {
	return itemToBounty(unwrap.Item(c.invoker.Call(c.hash, "getBounty", bountyID)))
}

// GetReview invokes `getReview` method of contract.
func (c *ContractReader) GetReview(bountyID *big.Int, reviewID *big.Int) (*Review, error) {
	return itemToReview(unwrap.Item(c.invoker.Call(c.hash, "getReview", bountyID, reviewID)))
}

// GetActiveBountiesCount invokes `getActiveBountiesCount` method of contract.
func (c *ContractReader) GetActiveBountiesCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getActiveBountiesCount"))
}

// TotalBounties invokes `totalBounties` method of contract.
func (c *ContractReader) TotalBounties() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalBounties"))
}

// IterateBounties invokes `iterateBounties` method of contract.
func (c *ContractReader) IterateBounties() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateBounties"))
}

// IterateBountiesExpanded is similar to IterateBounties (uses the same
// contract method), but can be useful if the server used doesn't support
// sessions and doesn't expand iterators. It creates a script that will get
// the specified number of result items from the iterator right in the VM
// and return them to you. It's only limited by VM stack and GAS available
// for RPC invocations.
func (c *ContractReader) IterateBountiesExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateBounties", _numOfIteratorItems))
}

// FeePercent invokes `feePercent` method of contract.
func (c *ContractReader) FeePercent() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "feePercent"))
}

// Admin invokes `admin` method of contract.
func (c *ContractReader) Admin() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "admin"))
}

// AvailableToSweep invokes `availableToSweep` method of contract.
func (c *ContractReader) AvailableToSweep() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "availableToSweep"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateBounty creates a transaction invoking `createBounty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateBounty(creator util.Uint160, description string, repoLink string, reviewPeriodDays *big.Int, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createBounty", creator, description, repoLink, reviewPeriodDays, amount)
}

// CreateBountyTransaction creates a transaction invoking `createBounty` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateBountyTransaction(creator util.Uint160, description string, repoLink string, reviewPeriodDays *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createBounty", creator, description, repoLink, reviewPeriodDays, amount)
}

// CreateBountyUnsigned creates a transaction invoking `createBounty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateBountyUnsigned(creator util.Uint160, description string, repoLink string, reviewPeriodDays *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createBounty", nil, creator, description, repoLink, reviewPeriodDays, amount)
}

// SubmitReview creates a transaction invoking `submitReview` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitReview(reviewer util.Uint160, bountyID *big.Int, content string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitReview", reviewer, bountyID, content)
}

// SubmitReviewTransaction creates a transaction invoking `submitReview` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitReviewTransaction(reviewer util.Uint160, bountyID *big.Int, content string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitReview", reviewer, bountyID, content)
}

// SubmitReviewUnsigned creates a transaction invoking `submitReview` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitReviewUnsigned(reviewer util.Uint160, bountyID *big.Int, content string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitReview", nil, reviewer, bountyID, content)
}

// VoteForReview creates a transaction invoking `voteForReview` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) VoteForReview(voter util.Uint160, bountyID *big.Int, reviewID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "voteForReview", voter, bountyID, reviewID)
}

// VoteForReviewTransaction creates a transaction invoking `voteForReview` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) VoteForReviewTransaction(voter util.Uint160, bountyID *big.Int, reviewID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "voteForReview", voter, bountyID, reviewID)
}

// VoteForReviewUnsigned creates a transaction invoking `voteForReview` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) VoteForReviewUnsigned(voter util.Uint160, bountyID *big.Int, reviewID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "voteForReview", nil, voter, bountyID, reviewID)
}

// FinalizeBounty creates a transaction invoking `finalizeBounty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) FinalizeBounty(bountyID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "finalizeBounty", bountyID)
}

// FinalizeBountyTransaction creates a transaction invoking `finalizeBounty` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FinalizeBountyTransaction(bountyID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "finalizeBounty", bountyID)
}

// FinalizeBountyUnsigned creates a transaction invoking `finalizeBounty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FinalizeBountyUnsigned(bountyID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "finalizeBounty", nil, bountyID)
}

// SetFeePercent creates a transaction invoking `setFeePercent` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetFeePercent(p *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setFeePercent", p)
}

// SetFeePercentTransaction creates a transaction invoking `setFeePercent` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetFeePercentTransaction(p *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setFeePercent", p)
}

// SetFeePercentUnsigned creates a transaction invoking `setFeePercent` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetFeePercentUnsigned(p *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setFeePercent", nil, p)
}

// Sweep creates a transaction invoking `sweep` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Sweep() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "sweep")
}

// SweepTransaction creates a transaction invoking `sweep` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SweepTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "sweep")
}

// SweepUnsigned creates a transaction invoking `sweep` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SweepUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "sweep", nil)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// itemToBounty converts stack item into *Bounty.
func itemToBounty(item stackitem.Item, err error) (*Bounty, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Bounty)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Bounty from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *Bounty) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 10 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Creator, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}

	index++
	res.Description, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	res.RepoLink, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field RepoLink: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	res.Deadline, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deadline: %w", err)
	}

	index++
	res.Active, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}

	index++
	res.Paid, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Paid: %w", err)
	}

	index++
	if _, isNull := arr[index].(stackitem.Null); !isNull {
		res.Winner, err = arr[index].TryBytes()
		if err != nil {
			return fmt.Errorf("field Winner: %w", err)
		}
	}

	index++
	res.TotalReviews, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalReviews: %w", err)
	}

	return nil
}

// itemToReview converts stack item into *Review.
func itemToReview(item stackitem.Item, err error) (*Review, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Review)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Review from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *Review) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 7 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.BountyID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field BountyID: %w", err)
	}

	index++
	res.Reviewer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Reviewer: %w", err)
	}

	index++
	res.Content, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Content: %w", err)
	}

	index++
	res.SubmittedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SubmittedAt: %w", err)
	}

	index++
	res.Votes, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Votes: %w", err)
	}

	index++
	res.Active, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}
