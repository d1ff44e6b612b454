/*
Package bounty contains implementation of the code review bounty contract.

The contract escrows a creator's GAS deposit for reviewing a piece of code,
accepts review artifacts from independent reviewers while the review window
is open, tallies community votes for those reviews during a fixed seven-day
voting window, and then pays the highest-voted reviewer (minus the platform
fee) or refunds the creator if nobody reviewed. Deadlines are data: no
timer fires, any account may invoke finalizeBounty once the voting window
has passed.

# Contract notifications

BountyCreated notification. This notification is produced when a creator
funds a new bounty.

	BountyCreated:
	  - name: bountyID
	    type: Integer
	  - name: creator
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: deadline
	    type: Integer

ReviewSubmitted notification. This notification is produced when a reviewer
submits an artifact against an active bounty.

	ReviewSubmitted:
	  - name: bountyID
	    type: Integer
	  - name: reviewID
	    type: Integer
	  - name: reviewer
	    type: Hash160

VoteCast notification. This notification is produced when a voter endorses
a review during the voting window.

	VoteCast:
	  - name: bountyID
	    type: Integer
	  - name: reviewID
	    type: Integer
	  - name: voter
	    type: Hash160

BountyPaid notification. This notification is produced when finalization
pays the winning reviewer.

	BountyPaid:
	  - name: bountyID
	    type: Integer
	  - name: winner
	    type: Hash160
	  - name: amount
	    type: Integer

BountyRefunded notification. This notification is produced when a bounty is
finalized with zero reviews and the deposit returns to the creator.

	BountyRefunded:
	  - name: bountyID
	    type: Integer
	  - name: creator
	    type: Hash160
	  - name: amount
	    type: Integer

FeePercentSet notification. This notification is produced when the admin
changes the platform fee.

	FeePercentSet:
	  - name: feePercent
	    type: Integer

Swept notification. This notification is produced when the admin withdraws
the unallocated GAS residue.

	Swept:
	  - name: admin
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package bounty

/*
Contract storage model.

# Summary
Current conventions:
 <id8>: 8-byte big-endian bounty identifier
 <rid8>: 8-byte big-endian review identifier
 <acc>: 20-byte script hash of an account

Key-value storage format:
 - 'o' -> interop.Hash160
   admin (contract owner) account set at deploy
 - 'f' -> int
   platform fee percent, 0..10
 - 'e' -> int
   total GAS escrowed by not yet finalized bounties
 - 'c' -> int
   last assigned bounty identifier
 - 'b<id8>' -> std.Serialize(Bounty)
   bounty descriptors
 - 'r<id8><rid8>' -> std.Serialize(Review)
   review descriptors, dense zero-based per bounty
 - 'm<id8><acc>' -> 0x01
   account has already reviewed the bounty
 - 'v<id8><rid8><acc>' -> 0x01
   account has already voted for the review

# Escrow
All deposits live in the contract's own GAS balance; per-bounty amounts are
accounting fields of the Bounty records. The 'e' accumulator tracks the sum
over live bounties so that sweep can only touch the residue above it. Every
bounty's amount is transferred out exactly once, by finalizeBounty.

# Phases
A bounty's phase is derived from comparing the current block time to its
stored deadline: reviews strictly before the deadline, votes within
[deadline, deadline+7d], finalization strictly after deadline+7d. Reviews
and votes are immutable once written; bounty records reach a terminal
Paid=true, Active=false state on finalization and are never deleted.
*/
