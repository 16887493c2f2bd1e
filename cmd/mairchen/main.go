// mAIrchen serves short German children's stories generated by an LLM.
//
// The service guards a shared provider budget with three admission limits:
// a per-client sliding window, a global daily request cap and a daily cost
// cap. Rejected requests get 429 with a German wait hint.
//
// Usage:
//
//	# Start the API with environment configuration
//	mairchen run
//
//	# Start with a configuration file that is reloaded on change
//	mairchen run --config /etc/mairchen/config.yaml
//
//	# Check configuration and show the effective limits
//	mairchen validate
//
//	# Show the token budget of a 10 minute story for grades 1 and 2
//	mairchen budget --length 10 --tier 12
//
//	# Show the last 20 journaled requests
//	mairchen usage query --limit 20
package main

func main() {
	Execute()
}
