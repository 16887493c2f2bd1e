// Package story turns a story request into a provider prompt and the
// provider's reply into a titled story.
//
// # Pipeline
//
// A Generator builds the system and user prompts for the requested reading
// level, sizes the completion with a costs.BudgetCalculator, calls the
// configured providers.Provider and parses the reply:
//
//	gen := story.NewGenerator(provider, budgets)
//	s, err := gen.Generate(ctx, req)
//
// The reply is expected to begin with "TITEL:". Anything before the first
// line break after it becomes the title; the rest is the story with inline
// markdown emphasis removed.
//
// # Vocabulary
//
// The embedded Grundwortschatz (basic vocabulary) list is split into the
// grades 1 and 2 section and the full list. Prompts for the younger tier
// only carry the first section. After generation, every list entry that
// starts a word in the story is reported back in its listed spelling.
package story
