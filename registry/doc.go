/*
Registry contract is the reviewer registry of the VeilPress platform.

Candidates register a profile with a name and an expertise description and
lock a registration stake as a participation bond. The platform operator
approves or revokes reviewers; only approved reviewers can submit reviews
through the Awards contract. The Awards contract is the only caller allowed
to bump a reviewer's review counter.

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
GAS from the free balance.

	Withdrawal:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer

ReviewerRegistered notification. This notification is produced when a new
reviewer profile is created.

	ReviewerRegistered:
	  - name: reviewer
	    type: Hash160
	  - name: name
	    type: String

ReviewerApproved and ReviewerRevoked notifications. These notifications are
produced when the operator changes a reviewer's authorization.

	ReviewerApproved:
	  - name: reviewer
	    type: Hash160

	ReviewerRevoked:
	  - name: reviewer
	    type: Hash160
*/
package registry
