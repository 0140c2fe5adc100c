// Package container implements the versioned, self-describing on-disk
// format of an encrypted document and the codec that produces and consumes
// it.
//
// A container is a JSON object:
//
//	{
//	  "format": "notevault",
//	  "version": 2,
//	  "encryption": {
//	    "algorithm": "AES-GCM",
//	    "keySize": 256,
//	    "ivLength": 12,
//	    "keyDerivation": {"function": "PBKDF2", "hash": "SHA-512", "iterations": 210000, "saltLength": 16}
//	  },
//	  "keyType": "password",
//	  "hint": "stored in clear",
//	  "data": "base64(nonce ‖ salt ‖ ciphertext‖tag)"
//	}
//
// Everything needed to decrypt except the password lives in the container,
// so any independent implementation holding the password can open it.
//
// Three states are distinguished: a decryptable container (current or
// legacy format tag), a pending placeholder ({"format":"notevault-pending",
// "version":2}) that has no ciphertext yet, and anything else, which is
// reported as a *FormatError.
package container
