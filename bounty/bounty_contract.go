package bounty

import (
	"github.com/Knox77777/Decentralized-Code-Review-Bounty-System/bounty/bountyconst"
	"github.com/Knox77777/Decentralized-Code-Review-Bounty-System/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Bounty is a funded code review request. Its deposit is held by the
	// contract until finalization pays the winning reviewer or refunds
	// the creator.
	Bounty struct {
		// Sequential identifier, starting from 1.
		ID int
		// Account that created and funded the bounty.
		Creator interop.Hash160
		// Free-form task description.
		Description string
		// Reference to the repository under review.
		RepoLink string
		// Escrowed deposit in the smallest GAS unit.
		Amount int
		// Block time (ms) when the review window closes and voting opens.
		Deadline int
		// Active is false once the bounty has been finalized.
		Active bool
		// Paid is true once the bounty has been finalized (payout or refund).
		Paid bool
		// Winning reviewer account, nil until paid with at least one review.
		Winner interop.Hash160
		// Number of reviews submitted so far.
		TotalReviews int
	}

	// Review is a reviewer's artifact submitted against a bounty.
	Review struct {
		// Dense zero-based identifier within the bounty, in submission order.
		ID int
		// Owning bounty identifier.
		BountyID int
		// Submitting account.
		Reviewer interop.Hash160
		// Review artifact itself.
		Content string
		// Block time (ms) of submission.
		SubmittedAt int
		// Number of votes received.
		Votes int
		// Active is always true: there is no mechanism to retract a review.
		Active bool
	}
)

const (
	ownerKey      = 'o'
	feePercentKey = 'f'
	escrowedKey   = 'e'
	counterKey    = 'c'

	bountyPrefix       = 'b'
	reviewPrefix       = 'r'
	reviewMarkerPrefix = 'm'
	voteMarkerPrefix   = 'v'

	votingPeriodMs = bountyconst.VotingPeriodDays * bountyconst.DayMilliseconds
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		admin      interop.Hash160
		feePercent int
	})

	if len(args.admin) != interop.Hash160Len {
		panic("incorrect length of admin script hash")
	}
	if args.feePercent < 0 || args.feePercent > bountyconst.MaxFeePercent {
		panic(bountyconst.ErrInvalidFee)
	}

	storage.Put(ctx, ownerKey, args.admin)
	storage.Put(ctx, feePercentKey, args.feePercent)
	storage.Put(ctx, counterKey, 0)
	storage.Put(ctx, escrowedKey, 0)

	runtime.Log("bounty contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("bounty contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// The contract accepts GAS deposits only; any other asset aborts the
// transferring transaction.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if amount <= 0 {
		common.AbortWithMessage("amount must be positive")
	}

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage("only GAS is accepted for deposit")
	}
}

// CreateBounty creates a new bounty with the given description, repository
// link and review period and takes `amount` of GAS from the creator into
// escrow. The review period is specified in days and must be within
// [bountyconst.MinReviewPeriodDays, bountyconst.MaxReviewPeriodDays].
// It can be invoked only by the creator.
//
// Bounty identifiers are assigned sequentially starting from 1. Deposit and
// record creation are inseparable: if the GAS transfer fails, the whole
// transaction faults and no bounty is created.
//
// It produces BountyCreated notification. Returns the identifier of the new
// bounty.
func CreateBounty(creator interop.Hash160, description, repoLink string, reviewPeriodDays, amount int) int {
	common.CheckWitness(creator)

	if amount <= 0 {
		panic(bountyconst.ErrInvalidAmount)
	}
	if reviewPeriodDays < bountyconst.MinReviewPeriodDays || reviewPeriodDays > bountyconst.MaxReviewPeriodDays {
		panic(bountyconst.ErrInvalidPeriod)
	}
	if len(description) == 0 {
		panic(bountyconst.ErrEmptyDescription)
	}
	if len(repoLink) == 0 {
		panic(bountyconst.ErrEmptyRepoLink)
	}

	ctx := storage.GetContext()

	id := storage.Get(ctx, counterKey).(int) + 1
	deadline := runtime.GetTime() + reviewPeriodDays*bountyconst.DayMilliseconds

	b := Bounty{
		ID:           id,
		Creator:      creator,
		Description:  description,
		RepoLink:     repoLink,
		Amount:       amount,
		Deadline:     deadline,
		Active:       true,
		Paid:         false,
		Winner:       nil,
		TotalReviews: 0,
	}

	storage.Put(ctx, counterKey, id)
	common.SetSerialized(ctx, bountyKey(id), b)
	storage.Put(ctx, escrowedKey, storage.Get(ctx, escrowedKey).(int)+amount)

	if !gas.Transfer(creator, runtime.GetExecutingScriptHash(), amount, nil) {
		panic(bountyconst.ErrDepositFailed)
	}

	runtime.Notify("BountyCreated", id, creator, amount, deadline)
	return id
}

// SubmitReview submits a review artifact against an active bounty. It can be
// invoked only by the reviewer and strictly before the bounty deadline. The
// creator cannot review their own bounty and every account can review a
// particular bounty at most once.
//
// Review identifiers are dense, zero-based and ordered by submission within
// their bounty.
//
// It produces ReviewSubmitted notification. Returns the identifier of the
// new review.
func SubmitReview(reviewer interop.Hash160, bountyID int, content string) int {
	common.CheckWitness(reviewer)

	if len(content) == 0 {
		panic(bountyconst.ErrEmptyContent)
	}

	ctx := storage.GetContext()
	b := mustGetBounty(ctx, bountyID)

	if !b.Active {
		panic(bountyconst.ErrNotActive)
	}
	if runtime.GetTime() >= b.Deadline {
		panic(bountyconst.ErrReviewClosed)
	}
	if b.Creator.Equals(reviewer) {
		panic(bountyconst.ErrOwnReview)
	}

	marker := append(common.AppendID([]byte{reviewMarkerPrefix}, bountyID), reviewer...)
	if storage.Get(ctx, marker) != nil {
		panic(bountyconst.ErrAlreadyReviewed)
	}

	reviewID := b.TotalReviews
	r := Review{
		ID:          reviewID,
		BountyID:    bountyID,
		Reviewer:    reviewer,
		Content:     content,
		SubmittedAt: runtime.GetTime(),
		Votes:       0,
		Active:      true,
	}

	common.SetSerialized(ctx, reviewKey(bountyID, reviewID), r)
	storage.Put(ctx, marker, []byte{1})

	b.TotalReviews = reviewID + 1
	common.SetSerialized(ctx, bountyKey(bountyID), b)

	runtime.Notify("ReviewSubmitted", bountyID, reviewID, reviewer)
	return reviewID
}

// VoteForReview records the voter's endorsement of the specified review. It
// can be invoked only by the voter and only within the voting window, which
// opens at the bounty deadline and closes bountyconst.VotingPeriodDays days
// later. Every account can vote for a particular review at most once; voting
// for several distinct reviews of one bounty is allowed.
//
// It produces VoteCast notification.
func VoteForReview(voter interop.Hash160, bountyID, reviewID int) {
	common.CheckWitness(voter)

	ctx := storage.GetContext()
	b := mustGetBounty(ctx, bountyID)

	if !b.Active {
		panic(bountyconst.ErrNotActive)
	}
	if b.Paid {
		panic(bountyconst.ErrAlreadyPaid)
	}

	now := runtime.GetTime()
	if now < b.Deadline {
		panic(bountyconst.ErrVotingNotStarted)
	}
	if now > b.Deadline+votingPeriodMs {
		panic(bountyconst.ErrVotingOver)
	}

	if reviewID < 0 || reviewID >= b.TotalReviews {
		panic(bountyconst.ErrReviewNotFound)
	}

	r := mustGetReview(ctx, bountyID, reviewID)
	if !r.Active {
		panic(bountyconst.ErrReviewNotFound)
	}

	marker := append(common.AppendID(common.AppendID([]byte{voteMarkerPrefix}, bountyID), reviewID), voter...)
	if storage.Get(ctx, marker) != nil {
		panic(bountyconst.ErrAlreadyVoted)
	}

	r.Votes = r.Votes + 1
	common.SetSerialized(ctx, reviewKey(bountyID, reviewID), r)
	storage.Put(ctx, marker, []byte{1})

	runtime.Notify("VoteCast", bountyID, reviewID, voter)
}

// FinalizeBounty disburses the escrowed deposit of a bounty whose voting
// window has closed and moves the bounty to its terminal state. It can be
// invoked by anyone, strictly after `deadline + voting period`, and succeeds
// at most once per bounty.
//
// With no reviews submitted, the full deposit is returned to the creator and
// BountyRefunded notification is produced. Otherwise the review with the
// maximum vote count wins (ties are broken in favor of the earliest
// submitted review), the platform fee is `amount * feePercent / 100` rounded
// down and goes to the admin account, the remainder goes to the winning
// reviewer, and BountyPaid notification is produced.
//
// All bounty state is committed before any GAS leaves the contract. A failed
// transfer faults the transaction, leaving the bounty active and eligible
// for a retry.
func FinalizeBounty(bountyID int) {
	ctx := storage.GetContext()
	b := mustGetBounty(ctx, bountyID)

	if !b.Active {
		panic(bountyconst.ErrNotActive)
	}
	if b.Paid {
		panic(bountyconst.ErrAlreadyPaid)
	}
	if runtime.GetTime() <= b.Deadline+votingPeriodMs {
		panic(bountyconst.ErrVotingInProgress)
	}

	self := runtime.GetExecutingScriptHash()

	storage.Put(ctx, escrowedKey, storage.Get(ctx, escrowedKey).(int)-b.Amount)

	if b.TotalReviews == 0 {
		// The refund path is as terminal as the payout path.
		b.Paid = true
		b.Active = false
		common.SetSerialized(ctx, bountyKey(bountyID), b)

		if !gas.Transfer(self, b.Creator, b.Amount, nil) {
			panic(bountyconst.ErrTransferFailed)
		}

		runtime.Notify("BountyRefunded", bountyID, b.Creator, b.Amount)
		return
	}

	var (
		winner   Review
		maxVotes = -1
	)
	for i := 0; i < b.TotalReviews; i++ {
		r := mustGetReview(ctx, bountyID, i)
		if r.Votes > maxVotes {
			maxVotes = r.Votes
			winner = r
		}
	}

	fee := b.Amount * storage.Get(ctx, feePercentKey).(int) / 100
	winnerAmount := b.Amount - fee

	b.Winner = winner.Reviewer
	b.Paid = true
	b.Active = false
	common.SetSerialized(ctx, bountyKey(bountyID), b)

	if !gas.Transfer(self, winner.Reviewer, winnerAmount, nil) {
		panic(bountyconst.ErrTransferFailed)
	}
	if fee > 0 {
		admin := storage.Get(ctx, ownerKey).(interop.Hash160)
		if !gas.Transfer(self, admin, fee, nil) {
			panic(bountyconst.ErrTransferFailed)
		}
	}

	runtime.Notify("BountyPaid", bountyID, winner.Reviewer, winnerAmount)
}

// SetFeePercent sets the platform fee percent applied by subsequent
// finalizations. It can be invoked only by the admin. Already finalized
// bounties are not affected.
//
// It produces FeePercentSet notification.
func SetFeePercent(p int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))

	if p < 0 || p > bountyconst.MaxFeePercent {
		panic(bountyconst.ErrInvalidFee)
	}

	storage.Put(ctx, feePercentKey, p)

	runtime.Notify("FeePercentSet", p)
	runtime.Log("fee percent updated")
}

// Sweep transfers the unallocated GAS residue of the contract to the admin
// account: the contract's GAS balance minus everything escrowed by not yet
// finalized bounties. Live escrow cannot be drained this way. It can be
// invoked only by the admin.
//
// It produces Swept notification. Returns the amount transferred.
func Sweep() int {
	ctx := storage.GetContext()
	admin := storage.Get(ctx, ownerKey).(interop.Hash160)
	common.CheckOwnerWitness(admin)

	self := runtime.GetExecutingScriptHash()
	avail := gas.BalanceOf(self) - storage.Get(ctx, escrowedKey).(int)
	if avail <= 0 {
		panic(bountyconst.ErrNothingToSweep)
	}

	if !gas.Transfer(self, admin, avail, nil) {
		panic(bountyconst.ErrTransferFailed)
	}

	runtime.Notify("Swept", admin, avail)
	return avail
}

// GetBounty returns the bounty with the specified identifier.
func GetBounty(bountyID int) Bounty {
	return mustGetBounty(storage.GetReadOnlyContext(), bountyID)
}

// GetReview returns the review with the specified identifier within the
// specified bounty.
func GetReview(bountyID, reviewID int) Review {
	return mustGetReview(storage.GetReadOnlyContext(), bountyID, reviewID)
}

// GetActiveBountiesCount returns the number of bounties that have not been
// finalized yet. It scans every bounty ever created.
func GetActiveBountiesCount() int {
	ctx := storage.GetReadOnlyContext()

	count := 0
	it := storage.Find(ctx, []byte{bountyPrefix}, storage.ValuesOnly)
	for iterator.Next(it) {
		b := std.Deserialize(iterator.Value(it).([]byte)).(Bounty)
		if b.Active {
			count++
		}
	}

	return count
}

// TotalBounties returns the number of bounties ever created.
func TotalBounties() int {
	return storage.Get(storage.GetReadOnlyContext(), counterKey).(int)
}

// IterateBounties returns an iterator over all bounties ever created, in
// identifier order.
func IterateBounties() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{bountyPrefix},
		storage.ValuesOnly|storage.DeserializeValues)
}

// FeePercent returns the current platform fee percent.
func FeePercent() int {
	return storage.Get(storage.GetReadOnlyContext(), feePercentKey).(int)
}

// Admin returns the administrative account fixed at deploy.
func Admin() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), ownerKey).(interop.Hash160)
}

// AvailableToSweep returns the unallocated GAS residue that Sweep would
// transfer to the admin.
func AvailableToSweep() int {
	ctx := storage.GetReadOnlyContext()
	return gas.BalanceOf(runtime.GetExecutingScriptHash()) - storage.Get(ctx, escrowedKey).(int)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func bountyKey(bountyID int) []byte {
	return common.AppendID([]byte{bountyPrefix}, bountyID)
}

func reviewKey(bountyID, reviewID int) []byte {
	return common.AppendID(common.AppendID([]byte{reviewPrefix}, bountyID), reviewID)
}

func mustGetBounty(ctx storage.Context, bountyID int) Bounty {
	data := storage.Get(ctx, bountyKey(bountyID))
	if data == nil {
		panic(bountyconst.ErrNotFound)
	}

	return std.Deserialize(data.([]byte)).(Bounty)
}

func mustGetReview(ctx storage.Context, bountyID, reviewID int) Review {
	data := storage.Get(ctx, reviewKey(bountyID, reviewID))
	if data == nil {
		panic(bountyconst.ErrReviewNotFound)
	}

	return std.Deserialize(data.([]byte)).(Review)
}
