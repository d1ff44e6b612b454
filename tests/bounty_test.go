package tests

import (
	"path"
	"testing"

	"github.com/Knox77777/Decentralized-Code-Review-Bounty-System/bounty/bountyconst"
	"github.com/Knox77777/Decentralized-Code-Review-Bounty-System/common"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const bountyPath = "../bounty"

// Bounty struct field order as returned by getBounty.
const (
	bFieldID = iota
	bFieldCreator
	bFieldDescription
	bFieldRepoLink
	bFieldAmount
	bFieldDeadline
	bFieldActive
	bFieldPaid
	bFieldWinner
	bFieldTotalReviews
)

// Review struct field order as returned by getReview.
const (
	rFieldID = iota
	rFieldBountyID
	rFieldReviewer
	rFieldContent
	rFieldSubmittedAt
	rFieldVotes
	rFieldActive
)

func deployBountyContract(t *testing.T, e *neotest.Executor, admin util.Uint160, feePercent int64) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, bountyPath,
		path.Join(bountyPath, "config.yml"))

	e.DeployContract(t, c, []any{admin, feePercent})
	return c.Hash
}

// newBountyChain deploys the contract with a dedicated admin account and the
// given fee percent.
func newBountyChain(t *testing.T, feePercent int64) (*neotest.Executor, util.Uint160, neotest.Signer) {
	e := newExecutor(t)
	admin := e.NewAccount(t)
	h := deployBountyContract(t, e, admin.ScriptHash(), feePercent)
	return e, h, admin
}

func TestDeploy(t *testing.T) {
	e, h, admin := newBountyChain(t, 5)
	inv := e.CommitteeInvoker(h)

	inv.Invoke(t, stackitem.Make(common.Version), "version")
	inv.Invoke(t, stackitem.Make(5), "feePercent")
	inv.Invoke(t, stackitem.Make(admin.ScriptHash().BytesBE()), "admin")
	inv.Invoke(t, stackitem.Make(0), "totalBounties")
	inv.Invoke(t, stackitem.Make(0), "getActiveBountiesCount")

	t.Run("invalid fee percent", func(t *testing.T) {
		e := newExecutor(t)
		c := neotest.CompileFile(t, e.CommitteeHash, bountyPath,
			path.Join(bountyPath, "config.yml"))
		e.DeployContractCheckFAULT(t, c, []any{admin.ScriptHash(), int64(11)},
			bountyconst.ErrInvalidFee)
	})
}

func TestCreateBounty(t *testing.T) {
	e, h, _ := newBountyChain(t, 5)

	creator := e.NewAccount(t)
	inv := e.NewInvoker(h, creator)

	const (
		desc = "audit the parser package"
		repo = "https://github.com/org/parser"
	)

	t.Run("invalid arguments", func(t *testing.T) {
		inv.InvokeFail(t, bountyconst.ErrInvalidAmount, "createBounty",
			creator.ScriptHash(), desc, repo, 10, 0)
		inv.InvokeFail(t, bountyconst.ErrInvalidPeriod, "createBounty",
			creator.ScriptHash(), desc, repo, 0, 1000)
		inv.InvokeFail(t, bountyconst.ErrInvalidPeriod, "createBounty",
			creator.ScriptHash(), desc, repo, 31, 1000)
		inv.InvokeFail(t, bountyconst.ErrEmptyDescription, "createBounty",
			creator.ScriptHash(), "", repo, 10, 1000)
		inv.InvokeFail(t, bountyconst.ErrEmptyRepoLink, "createBounty",
			creator.ScriptHash(), desc, "", 10, 1000)
	})

	t.Run("missing witness", func(t *testing.T) {
		other := e.NewAccount(t)
		e.NewInvoker(h, other).InvokeFail(t, common.ErrWitnessFailed, "createBounty",
			creator.ScriptHash(), desc, repo, 10, 1000)
	})

	txH := inv.Invoke(t, stackitem.Make(1), "createBounty",
		creator.ScriptHash(), desc, repo, 10, 1000)
	deadline := int64(topBlockTime(t, e)) + 10*dayMs

	checkLastEvent(t, e, txH, "BountyCreated",
		stackitem.Make(1), stackitem.Make(creator.ScriptHash().BytesBE()),
		stackitem.Make(1000), stackitem.Make(deadline))
	require.EqualValues(t, 1000, gasBalance(t, e, h))

	b := structItems(t, inv, "getBounty", 1)
	require.EqualValues(t, 1, itemInt(t, b[bFieldID]))
	require.Equal(t, creator.ScriptHash().BytesBE(), itemBytes(t, b[bFieldCreator]))
	require.Equal(t, desc, string(itemBytes(t, b[bFieldDescription])))
	require.Equal(t, repo, string(itemBytes(t, b[bFieldRepoLink])))
	require.EqualValues(t, 1000, itemInt(t, b[bFieldAmount]))
	require.EqualValues(t, deadline, itemInt(t, b[bFieldDeadline]))
	require.True(t, itemBool(t, b[bFieldActive]))
	require.False(t, itemBool(t, b[bFieldPaid]))
	require.EqualValues(t, 0, itemInt(t, b[bFieldTotalReviews]))

	inv.Invoke(t, stackitem.Make(1), "totalBounties")
	inv.Invoke(t, stackitem.Make(1), "getActiveBountiesCount")
	inv.InvokeFail(t, bountyconst.ErrNotFound, "getBounty", 42)

	t.Run("sequential ids", func(t *testing.T) {
		inv.Invoke(t, stackitem.Make(2), "createBounty",
			creator.ScriptHash(), desc, repo, 5, 300)
		inv.Invoke(t, stackitem.Make(2), "totalBounties")
		require.EqualValues(t, 1300, gasBalance(t, e, h))

		ids := make([]int64, 0, 2)
		for _, item := range iterateAll(t, inv, "iterateBounties") {
			fields := item.Value().([]stackitem.Item)
			ids = append(ids, itemInt(t, fields[bFieldID]))
		}
		require.Equal(t, []int64{1, 2}, ids)
	})
}

func TestSubmitReview(t *testing.T) {
	e, h, _ := newBountyChain(t, 5)

	creator := e.NewAccount(t)
	reviewer1 := e.NewAccount(t)
	reviewer2 := e.NewAccount(t)
	reviewer3 := e.NewAccount(t)

	cInv := e.NewInvoker(h, creator)
	r1Inv := e.NewInvoker(h, reviewer1)
	r2Inv := e.NewInvoker(h, reviewer2)

	cInv.Invoke(t, stackitem.Make(1), "createBounty",
		creator.ScriptHash(), "review my code", "https://example.com/repo", 5, 1000)
	deadline := topBlockTime(t, e) + 5*dayMs

	t.Run("rejected", func(t *testing.T) {
		r1Inv.InvokeFail(t, bountyconst.ErrEmptyContent, "submitReview",
			reviewer1.ScriptHash(), 1, "")
		r1Inv.InvokeFail(t, bountyconst.ErrNotFound, "submitReview",
			reviewer1.ScriptHash(), 2, "looks good")
		cInv.InvokeFail(t, bountyconst.ErrOwnReview, "submitReview",
			creator.ScriptHash(), 1, "looks good")
		r2Inv.InvokeFail(t, common.ErrWitnessFailed, "submitReview",
			reviewer1.ScriptHash(), 1, "looks good")
	})

	txH := r1Inv.Invoke(t, stackitem.Make(0), "submitReview",
		reviewer1.ScriptHash(), 1, "found an off-by-one in the lexer")
	checkLastEvent(t, e, txH, "ReviewSubmitted",
		stackitem.Make(1), stackitem.Make(0), stackitem.Make(reviewer1.ScriptHash().BytesBE()))
	submitted := topBlockTime(t, e)

	r := structItems(t, r1Inv, "getReview", 1, 0)
	require.EqualValues(t, 0, itemInt(t, r[rFieldID]))
	require.EqualValues(t, 1, itemInt(t, r[rFieldBountyID]))
	require.Equal(t, reviewer1.ScriptHash().BytesBE(), itemBytes(t, r[rFieldReviewer]))
	require.Equal(t, "found an off-by-one in the lexer", string(itemBytes(t, r[rFieldContent])))
	require.EqualValues(t, submitted, itemInt(t, r[rFieldSubmittedAt]))
	require.EqualValues(t, 0, itemInt(t, r[rFieldVotes]))
	require.True(t, itemBool(t, r[rFieldActive]))

	t.Run("one review per reviewer", func(t *testing.T) {
		r1Inv.InvokeFail(t, bountyconst.ErrAlreadyReviewed, "submitReview",
			reviewer1.ScriptHash(), 1, "second thoughts")
	})

	t.Run("dense ordered ids", func(t *testing.T) {
		r2Inv.Invoke(t, stackitem.Make(1), "submitReview",
			reviewer2.ScriptHash(), 1, "tests are missing for the error paths")

		b := structItems(t, r2Inv, "getBounty", 1)
		require.EqualValues(t, 2, itemInt(t, b[bFieldTotalReviews]))
	})

	t.Run("strictly before deadline", func(t *testing.T) {
		// At the deadline exactly: no grace window on the review side.
		r3Inv := e.NewInvoker(h, reviewer3)
		tx := r3Inv.PrepareInvoke(t, "submitReview",
			reviewer3.ScriptHash(), 1, "too late")
		b := e.NewUnsignedBlock(t, tx)
		b.Timestamp = deadline
		e.SignBlock(b)
		require.NoError(t, e.Chain.AddBlock(b))
		e.CheckFault(t, tx.Hash(), bountyconst.ErrReviewClosed)

		b2 := structItems(t, r3Inv, "getBounty", 1)
		require.EqualValues(t, 2, itemInt(t, b2[bFieldTotalReviews]))
	})
}

func TestVoteForReview(t *testing.T) {
	e, h, _ := newBountyChain(t, 5)

	creator := e.NewAccount(t)
	reviewer1 := e.NewAccount(t)
	reviewer2 := e.NewAccount(t)
	voter1 := e.NewAccount(t)
	voter2 := e.NewAccount(t)
	voter3 := e.NewAccount(t)

	cInv := e.NewInvoker(h, creator)
	v1Inv := e.NewInvoker(h, voter1)
	v2Inv := e.NewInvoker(h, voter2)
	v3Inv := e.NewInvoker(h, voter3)

	cInv.Invoke(t, stackitem.Make(1), "createBounty",
		creator.ScriptHash(), "review my code", "https://example.com/repo", 3, 1000)
	deadline := topBlockTime(t, e) + 3*dayMs

	e.NewInvoker(h, reviewer1).Invoke(t, stackitem.Make(0), "submitReview",
		reviewer1.ScriptHash(), 1, "style nits")
	e.NewInvoker(h, reviewer2).Invoke(t, stackitem.Make(1), "submitReview",
		reviewer2.ScriptHash(), 1, "data race in the pool")

	t.Run("voting opens at the deadline", func(t *testing.T) {
		v1Inv.InvokeFail(t, bountyconst.ErrVotingNotStarted, "voteForReview",
			voter1.ScriptHash(), 1, 0)
	})

	advanceChainDays(t, e, 3)

	t.Run("rejected", func(t *testing.T) {
		v1Inv.InvokeFail(t, bountyconst.ErrNotFound, "voteForReview",
			voter1.ScriptHash(), 2, 0)
		v1Inv.InvokeFail(t, bountyconst.ErrReviewNotFound, "voteForReview",
			voter1.ScriptHash(), 1, 2)
		v1Inv.InvokeFail(t, bountyconst.ErrReviewNotFound, "voteForReview",
			voter1.ScriptHash(), 1, -1)
		v2Inv.InvokeFail(t, common.ErrWitnessFailed, "voteForReview",
			voter1.ScriptHash(), 1, 0)
	})

	txH := v1Inv.Invoke(t, stackitem.Null{}, "voteForReview", voter1.ScriptHash(), 1, 0)
	checkLastEvent(t, e, txH, "VoteCast",
		stackitem.Make(1), stackitem.Make(0), stackitem.Make(voter1.ScriptHash().BytesBE()))

	r := structItems(t, v1Inv, "getReview", 1, 0)
	require.EqualValues(t, 1, itemInt(t, r[rFieldVotes]))

	t.Run("one vote per review", func(t *testing.T) {
		v1Inv.InvokeFail(t, bountyconst.ErrAlreadyVoted, "voteForReview",
			voter1.ScriptHash(), 1, 0)
	})

	t.Run("same voter, another review", func(t *testing.T) {
		v1Inv.Invoke(t, stackitem.Null{}, "voteForReview", voter1.ScriptHash(), 1, 1)

		r := structItems(t, v1Inv, "getReview", 1, 1)
		require.EqualValues(t, 1, itemInt(t, r[rFieldVotes]))
	})

	t.Run("window edge", func(t *testing.T) {
		// A vote at deadline+7d exactly is still in; finalization in the
		// same block is not.
		voteTx := v2Inv.PrepareInvoke(t, "voteForReview", voter2.ScriptHash(), 1, 0)
		finTx := v3Inv.PrepareInvoke(t, "finalizeBounty", 1)

		b := e.NewUnsignedBlock(t, voteTx, finTx)
		b.Timestamp = deadline + 7*dayMs
		e.SignBlock(b)
		require.NoError(t, e.Chain.AddBlock(b))

		e.CheckHalt(t, voteTx.Hash(), stackitem.Null{})
		e.CheckFault(t, finTx.Hash(), bountyconst.ErrVotingInProgress)

		r := structItems(t, v2Inv, "getReview", 1, 0)
		require.EqualValues(t, 2, itemInt(t, r[rFieldVotes]))
	})

	t.Run("voting closes after the window", func(t *testing.T) {
		advanceChainMs(t, e, 1)
		v3Inv.InvokeFail(t, bountyconst.ErrVotingOver, "voteForReview",
			voter3.ScriptHash(), 1, 0)

		r := structItems(t, v3Inv, "getReview", 1, 0)
		require.EqualValues(t, 2, itemInt(t, r[rFieldVotes]))
	})
}

func TestFinalizeBounty(t *testing.T) {
	e, h, admin := newBountyChain(t, 5)

	creator := e.NewAccount(t)
	relayer := e.NewAccount(t)
	cInv := e.NewInvoker(h, creator)
	relInv := e.NewInvoker(h, relayer)

	reviewers := make([]neotest.Signer, 4)
	for i := range reviewers {
		reviewers[i] = e.NewAccount(t)
	}
	voters := make([]neotest.Signer, 5)
	for i := range voters {
		voters[i] = e.NewAccount(t)
	}

	cInv.Invoke(t, stackitem.Make(1), "createBounty",
		creator.ScriptHash(), "review my code", "https://example.com/repo", 1, 1000)

	for i, r := range reviewers {
		e.NewInvoker(h, r).Invoke(t, stackitem.Make(i), "submitReview",
			r.ScriptHash(), 1, "review artifact")
	}

	advanceChainDays(t, e, 1)

	// Vote counts per review: [3, 5, 5, 2]. Reviews 1 and 2 tie for the
	// maximum, the earlier submitted one must win.
	votesPerReview := []int{3, 5, 5, 2}
	for reviewID, n := range votesPerReview {
		for _, v := range voters[:n] {
			e.NewInvoker(h, v).Invoke(t, stackitem.Null{}, "voteForReview",
				v.ScriptHash(), 1, reviewID)
		}
	}

	t.Run("not before the voting window ends", func(t *testing.T) {
		relInv.InvokeFail(t, bountyconst.ErrVotingInProgress, "finalizeBounty", 1)
	})

	advanceChainDays(t, e, 7)

	winner := reviewers[1].ScriptHash()
	winnerBefore := gasBalance(t, e, winner)
	adminBefore := gasBalance(t, e, admin.ScriptHash())

	txH := relInv.Invoke(t, stackitem.Null{}, "finalizeBounty", 1)
	checkLastEvent(t, e, txH, "BountyPaid",
		stackitem.Make(1), stackitem.Make(winner.BytesBE()), stackitem.Make(950))

	require.Equal(t, winnerBefore+950, gasBalance(t, e, winner))
	require.Equal(t, adminBefore+50, gasBalance(t, e, admin.ScriptHash()))
	require.EqualValues(t, 0, gasBalance(t, e, h))

	b := structItems(t, relInv, "getBounty", 1)
	require.False(t, itemBool(t, b[bFieldActive]))
	require.True(t, itemBool(t, b[bFieldPaid]))
	require.Equal(t, winner.BytesBE(), itemBytes(t, b[bFieldWinner]))

	relInv.Invoke(t, stackitem.Make(0), "getActiveBountiesCount")
	relInv.Invoke(t, stackitem.Make(0), "availableToSweep")

	t.Run("exactly once", func(t *testing.T) {
		relInv.InvokeFail(t, bountyconst.ErrNotActive, "finalizeBounty", 1)
	})
}

func TestFinalizeFeeRounding(t *testing.T) {
	e, h, admin := newBountyChain(t, 5)

	creator := e.NewAccount(t)
	reviewer := e.NewAccount(t)
	relayer := e.NewAccount(t)

	e.NewInvoker(h, creator).Invoke(t, stackitem.Make(1), "createBounty",
		creator.ScriptHash(), "review my code", "https://example.com/repo", 1, 101)
	e.NewInvoker(h, reviewer).Invoke(t, stackitem.Make(0), "submitReview",
		reviewer.ScriptHash(), 1, "fine by me")

	advanceChainDays(t, e, 8)
	advanceChainMs(t, e, 1)

	reviewerBefore := gasBalance(t, e, reviewer.ScriptHash())
	adminBefore := gasBalance(t, e, admin.ScriptHash())

	// floor(101 * 5 / 100) = 5 for the admin, 96 for the only reviewer,
	// who wins with zero votes.
	txH := e.NewInvoker(h, relayer).Invoke(t, stackitem.Null{}, "finalizeBounty", 1)
	checkLastEvent(t, e, txH, "BountyPaid",
		stackitem.Make(1), stackitem.Make(reviewer.ScriptHash().BytesBE()), stackitem.Make(96))

	require.Equal(t, reviewerBefore+96, gasBalance(t, e, reviewer.ScriptHash()))
	require.Equal(t, adminBefore+5, gasBalance(t, e, admin.ScriptHash()))
}

func TestFinalizeRefund(t *testing.T) {
	e, h, _ := newBountyChain(t, 5)

	creator := e.NewAccount(t)
	relayer := e.NewAccount(t)
	relInv := e.NewInvoker(h, relayer)

	e.NewInvoker(h, creator).Invoke(t, stackitem.Make(1), "createBounty",
		creator.ScriptHash(), "review my code", "https://example.com/repo", 1, 500)

	advanceChainDays(t, e, 8)
	advanceChainMs(t, e, 1)

	creatorBefore := gasBalance(t, e, creator.ScriptHash())

	txH := relInv.Invoke(t, stackitem.Null{}, "finalizeBounty", 1)
	checkLastEvent(t, e, txH, "BountyRefunded",
		stackitem.Make(1), stackitem.Make(creator.ScriptHash().BytesBE()), stackitem.Make(500))

	require.Equal(t, creatorBefore+500, gasBalance(t, e, creator.ScriptHash()))
	require.EqualValues(t, 0, gasBalance(t, e, h))

	// The refund is terminal: the bounty cannot be finalized (and
	// refunded) again.
	b := structItems(t, relInv, "getBounty", 1)
	require.False(t, itemBool(t, b[bFieldActive]))
	require.True(t, itemBool(t, b[bFieldPaid]))

	relInv.Invoke(t, stackitem.Make(0), "getActiveBountiesCount")
	relInv.InvokeFail(t, bountyconst.ErrNotActive, "finalizeBounty", 1)
}

func TestSetFeePercent(t *testing.T) {
	e, h, admin := newBountyChain(t, 5)
	adminInv := e.NewInvoker(h, admin)

	t.Run("admin only", func(t *testing.T) {
		stranger := e.NewAccount(t)
		e.NewInvoker(h, stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"setFeePercent", 10)
	})

	t.Run("bounded", func(t *testing.T) {
		adminInv.InvokeFail(t, bountyconst.ErrInvalidFee, "setFeePercent", 11)
		adminInv.InvokeFail(t, bountyconst.ErrInvalidFee, "setFeePercent", -1)
	})

	txH := adminInv.Invoke(t, stackitem.Null{}, "setFeePercent", 10)
	checkLastEvent(t, e, txH, "FeePercentSet", stackitem.Make(10))
	adminInv.Invoke(t, stackitem.Make(10), "feePercent")

	t.Run("applies to subsequent finalizations", func(t *testing.T) {
		creator := e.NewAccount(t)
		reviewer := e.NewAccount(t)
		relayer := e.NewAccount(t)

		e.NewInvoker(h, creator).Invoke(t, stackitem.Make(1), "createBounty",
			creator.ScriptHash(), "review my code", "https://example.com/repo", 1, 1000)
		e.NewInvoker(h, reviewer).Invoke(t, stackitem.Make(0), "submitReview",
			reviewer.ScriptHash(), 1, "ship it")

		advanceChainDays(t, e, 8)
		advanceChainMs(t, e, 1)

		reviewerBefore := gasBalance(t, e, reviewer.ScriptHash())
		adminBefore := gasBalance(t, e, admin.ScriptHash())

		e.NewInvoker(h, relayer).Invoke(t, stackitem.Null{}, "finalizeBounty", 1)

		require.Equal(t, reviewerBefore+900, gasBalance(t, e, reviewer.ScriptHash()))
		require.Equal(t, adminBefore+100, gasBalance(t, e, admin.ScriptHash()))
	})
}

func TestSweep(t *testing.T) {
	e, h, admin := newBountyChain(t, 0)
	adminInv := e.NewInvoker(h, admin)

	creator := e.NewAccount(t)
	e.NewInvoker(h, creator).Invoke(t, stackitem.Make(1), "createBounty",
		creator.ScriptHash(), "review my code", "https://example.com/repo", 1, 1000)

	t.Run("live escrow is not sweepable", func(t *testing.T) {
		adminInv.Invoke(t, stackitem.Make(0), "availableToSweep")
		adminInv.InvokeFail(t, bountyconst.ErrNothingToSweep, "sweep")
	})

	// GAS sent past createBounty is unallocated residue.
	gasHash := e.NativeHash(t, nativenames.Gas)
	e.CommitteeInvoker(gasHash).Invoke(t, stackitem.Make(true), "transfer",
		e.CommitteeHash, h, 250, nil)

	adminInv.Invoke(t, stackitem.Make(250), "availableToSweep")

	t.Run("admin only", func(t *testing.T) {
		stranger := e.NewAccount(t)
		e.NewInvoker(h, stranger).InvokeFail(t, common.ErrOwnerWitnessFailed, "sweep")
	})

	txH := adminInv.Invoke(t, stackitem.Make(250), "sweep")
	checkLastEvent(t, e, txH, "Swept",
		stackitem.Make(admin.ScriptHash().BytesBE()), stackitem.Make(250))

	require.EqualValues(t, 1000, gasBalance(t, e, h))
	adminInv.Invoke(t, stackitem.Make(0), "availableToSweep")

	t.Run("escrow survives the sweep", func(t *testing.T) {
		relayer := e.NewAccount(t)
		advanceChainDays(t, e, 8)
		advanceChainMs(t, e, 1)

		creatorBefore := gasBalance(t, e, creator.ScriptHash())
		e.NewInvoker(h, relayer).Invoke(t, stackitem.Null{}, "finalizeBounty", 1)

		require.Equal(t, creatorBefore+1000, gasBalance(t, e, creator.ScriptHash()))
		require.EqualValues(t, 0, gasBalance(t, e, h))
	})
}
