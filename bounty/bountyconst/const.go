package bountyconst

const (
	// MinReviewPeriodDays is the shortest review period a bounty can be
	// created with.
	MinReviewPeriodDays = 1
	// MaxReviewPeriodDays is the longest review period a bounty can be
	// created with.
	MaxReviewPeriodDays = 30

	// VotingPeriodDays is the fixed length of the voting window that opens
	// at the bounty deadline. It is not configurable.
	VotingPeriodDays = 7

	// MaxFeePercent is the upper bound for the platform fee.
	MaxFeePercent = 10

	// DayMilliseconds is one day of block time, the unit deadlines are
	// computed in.
	DayMilliseconds = 86_400_000
)

const (
	// ErrNotFound is returned if the requested bounty is missing.
	ErrNotFound = "bounty does not exist"
	// ErrReviewNotFound is returned if the requested review is missing.
	ErrReviewNotFound = "review does not exist"

	// ErrInvalidAmount is returned on an attempt to create a bounty with a
	// non-positive deposit.
	ErrInvalidAmount = "deposit amount must be positive"
	// ErrInvalidPeriod is returned on an attempt to create a bounty with a
	// review period outside [MinReviewPeriodDays, MaxReviewPeriodDays].
	ErrInvalidPeriod = "review period is out of range"
	// ErrEmptyDescription is returned if a bounty description is empty.
	ErrEmptyDescription = "description must not be empty"
	// ErrEmptyRepoLink is returned if a bounty repository link is empty.
	ErrEmptyRepoLink = "repository link must not be empty"
	// ErrEmptyContent is returned if review content is empty.
	ErrEmptyContent = "review content must not be empty"
	// ErrInvalidFee is returned on an attempt to set a fee percent outside
	// [0, MaxFeePercent].
	ErrInvalidFee = "fee percent is out of range"

	// ErrNotActive is returned on any operation against a finalized bounty.
	ErrNotActive = "bounty is not active"
	// ErrAlreadyPaid is returned on an attempt to finalize or vote on an
	// already paid bounty.
	ErrAlreadyPaid = "bounty already paid"
	// ErrReviewClosed is returned on a review submitted at or after the
	// bounty deadline.
	ErrReviewClosed = "review period is over"
	// ErrVotingNotStarted is returned on a vote cast before the bounty
	// deadline.
	ErrVotingNotStarted = "voting has not started yet"
	// ErrVotingOver is returned on a vote cast after the voting window.
	ErrVotingOver = "voting is over"
	// ErrVotingInProgress is returned on a finalization attempt at or
	// before the end of the voting window.
	ErrVotingInProgress = "voting is still in progress"

	// ErrOwnReview is returned on an attempt of a creator to review their
	// own bounty.
	ErrOwnReview = "creator cannot review own bounty"
	// ErrAlreadyReviewed is returned on a second review of the same bounty
	// by the same account.
	ErrAlreadyReviewed = "already reviewed this bounty"
	// ErrAlreadyVoted is returned on a second vote for the same review by
	// the same account.
	ErrAlreadyVoted = "already voted for this review"

	// ErrNothingToSweep is returned if the contract holds no GAS beyond
	// the escrow of live bounties.
	ErrNothingToSweep = "nothing to sweep"

	// ErrTransferFailed is returned if an outward GAS transfer cannot be
	// completed; the transaction is aborted so no partial state survives.
	ErrTransferFailed = "failed to transfer GAS, aborting"
	// ErrDepositFailed is returned if the escrow deposit transfer cannot be
	// completed during bounty creation.
	ErrDepositFailed = "failed to deposit GAS, aborting"
)
