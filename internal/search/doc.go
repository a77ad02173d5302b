// Package search owns the live FAQ corpus: the TF-IDF index used to answer
// questions, a bleve keyword index used to browse entries, and a result cache.
//
// All three live in one immutable snapshot behind an atomic pointer. Reloads
// build a complete new snapshot and swap it in; queries load the pointer once
// and never take a lock.
package search
