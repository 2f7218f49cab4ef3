package domain

// knownModels lists model identifiers known to work with opencode.
// It is reference data only; nothing validates --model against it.
var knownModels = [...]string{
	"opencode/claude-sonnet-4",
	"opencode/claude-opus-4-1",
	"lmstudio/openai/gpt-oss-20b",
	"lmstudio/qwen/qwen3-coder-30b",
	"lmstudio/qwen/qwen3-30b-a3b-2507",
	"opencode/claude-3-5-haiku",
	"opencode/grok-code",
	"opencode/gpt-5",
	"opencode/code-supernova",
	"opencode/kimi-k2",
	"opencode/qwen3-coder",
	"anthropic/claude-3-7-sonnet-20250219",
	"anthropic/claude-opus-4-1-20250805",
	"anthropic/claude-3-haiku-20240307",
	"anthropic/claude-3-5-haiku-20241022",
	"anthropic/claude-opus-4-20250514",
	"anthropic/claude-3-5-sonnet-20241022",
	"anthropic/claude-3-5-sonnet-20240620",
	"anthropic/claude-3-sonnet-20240229",
	"anthropic/claude-sonnet-4-20250514",
	"anthropic/claude-3-opus-20240229",
}

// KnownModels returns a copy of the model catalog
func KnownModels() []string {
	out := make([]string, len(knownModels))
	copy(out, knownModels[:])
	return out
}
