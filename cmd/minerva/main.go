// Minerva is a hybrid deterministic/LLM module activation engine for
// document generation.
//
// Given a module catalog and a variable snapshot, it decides which content
// modules belong in the generated document: deterministic rules are
// evaluated locally with three-valued logic, and only the modules no rule
// can settle are batched into a single external reasoner call.
//
// Usage:
//
//	# Compute an activation plan
//	minerva plan --catalog catalog.yaml --snapshot snapshot.yaml
//
//	# Compute a plan without any reasoner calls (indeterminate modules
//	# fail closed to skip)
//	minerva plan --catalog catalog.yaml --snapshot snapshot.yaml --offline
//
//	# Validate catalog files
//	minerva lint --file catalog.yaml
//
//	# Sweep expired entries out of the sqlite verdict cache
//	minerva purge
//
//	# Show version information
//	minerva version
package main

func main() {
	Execute()
}
