/*
Awards contract is the core contract of the VeilPress confidential literary
award platform.

Authors submit works with a GAS deposit during the submission half of the
cycle. Approved reviewers submit encrypted three-dimension scores (quality,
originality, impact) with a GAS stake during the review half. Score handles
live in the Cipher contract; each review additionally carries an encrypted
privacy multiplier, so the decrypted aggregate is an opaque ranking signal
and individual verdicts stay confidential. The platform operator requests
aggregate decryption, an off-chain oracle delivers the cleartext through
OnDecryptionCallback with a proof verified by the Cipher contract, and
per-genre awards are calculated and announced.

Funds are never locked: every escrowed deposit and stake has a refund path.
Reviewers reclaim their stake when decryption fails or times out, authors
reclaim their deposit when a work stays unreviewed past the submission
refund horizon, and reviewers reclaim their stake when decryption never
completes past the review refund horizon. Refunds credit the internal
escrow balance; Withdraw moves GAS back to the account.

# Contract notifications

Deposit notification. This notification is produced when user transfers
GAS to the contract address.

	Deposit:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: receiver
	    type: Hash160
	  - name: txHash
	    type: Hash256

Withdrawal notification. This notification is produced when user withdraws
GAS from the internal escrow balance.

	Withdrawal:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer

FeesWithdrawn notification. This notification is produced when the operator
collects accumulated platform fees.

	FeesWithdrawn:
	  - name: receiver
	    type: Hash160
	  - name: amount
	    type: Integer

WorkSubmitted notification. This notification is produced when an author
submits a new work.

	WorkSubmitted:
	  - name: period
	    type: Integer
	  - name: workID
	    type: Integer
	  - name: author
	    type: Hash160
	  - name: genre
	    type: Integer

ReviewSubmitted notification. This notification is produced when a reviewer
submits an encrypted review.

	ReviewSubmitted:
	  - name: period
	    type: Integer
	  - name: workID
	    type: Integer
	  - name: reviewer
	    type: Hash160

SubmissionPeriodAdvanced and ReviewPeriodAdvanced notifications. These
notifications are produced when the operator advances the respective period
counter.

	SubmissionPeriodAdvanced:
	  - name: period
	    type: Integer

	ReviewPeriodAdvanced:
	  - name: period
	    type: Integer

ScoreDecryptionRequested notification. This notification is produced when
the operator requests decryption of a work's aggregate score.

	ScoreDecryptionRequested:
	  - name: period
	    type: Integer
	  - name: workID
	    type: Integer
	  - name: requestID
	    type: ByteArray

ScoreDecrypted notification. This notification is produced when the oracle
delivers a valid decryption result.

	ScoreDecrypted:
	  - name: period
	    type: Integer
	  - name: workID
	    type: Integer
	  - name: value
	    type: Integer

ScoreDecryptionFailed notification. This notification is produced when the
operator marks a timed out decryption request as failed.

	ScoreDecryptionFailed:
	  - name: period
	    type: Integer
	  - name: workID
	    type: Integer

RefundClaimed notification. This notification is produced on every
successful refund claim. Kind is 0 for decryption failure, 1 for submission
timeout, 2 for reviewer timeout.

	RefundClaimed:
	  - name: period
	    type: Integer
	  - name: workID
	    type: Integer
	  - name: claimer
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: kind
	    type: Integer

AwardAnnounced notification. This notification is produced once per genre
award when the operator announces period results.

	AwardAnnounced:
	  - name: period
	    type: Integer
	  - name: genre
	    type: Integer
	  - name: workID
	    type: Integer
*/
package awards
