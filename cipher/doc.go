/*
Cipher contract is the confidentiality capability of the VeilPress platform.

It stores integer values under opaque 32-byte handles and enforces access
control on every read: a handle value can be revealed only by its owner, the
designated decryption oracle or a principal with an explicit Allow grant.
Add and Mul derive new handles without disclosing operand values; operands
must themselves be accessible to the caller, so derivation cannot be used to
launder a foreign value into a revealable handle. CheckRange attests that an
owned handle value lies in a range, and RequestDecryption registers a batch
reveal for the oracle to serve asynchronously, under the same operand access
rules. The oracle
delivers cleartexts to requesters together with a proof binding the value to
the request identifier; VerifyDecryptionProof checks that binding under the
oracle's witness.

# Contract notifications

DecryptionRequested notification. This notification is produced when a
decryption request is registered; the oracle watches for it.

	DecryptionRequested:
	  - name: requestID
	    type: ByteArray
	  - name: handles
	    type: Array
*/
package cipher
