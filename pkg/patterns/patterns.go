// Package patterns is the static pattern library backing the rule-based
// detectors. Rule categories map to ordered sets of compiled patterns;
// adding a detection rule means adding an entry here, never touching
// detector logic.
package patterns

import "regexp"

// Rule category names.
const (
	CategoryJailbreakRules  = "jailbreak_rules"
	CategoryPromptInjection = "prompt_injection"
)

// Pattern is one named matcher inside a category.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

var jailbreakRulePatterns = []Pattern{
	{"ignore_previous_instructions", regexp.MustCompile(`(?i)\bignore (?:all )?previous instructions\b`)},
	{"disregard_safety", regexp.MustCompile(`(?i)\bdisregard (?:all )?safety\b`)},
	{"jailbreak_keyword", regexp.MustCompile(`(?i)\bjailbreak\b`)},
	{"developer_mode", regexp.MustCompile(`(?i)\bdeveloper mode\b`)},
	{"do_anything_now", regexp.MustCompile(`(?i)\bdo anything now\b`)},
	{"dan_roleplay", regexp.MustCompile(`(?i)\b(?:as a dan|you are dan|pretend you are dan)\b`)},
	{"system_override", regexp.MustCompile(`(?i)\boverride (?:the )?system\b`)},
	{"bypass_safeguards", regexp.MustCompile(`(?i)\bbypass (?:all )?safeguards\b`)},
	{"no_longer_ai", regexp.MustCompile(`(?i)\byou are no longer an ai\b`)},
	{"pretend_unrestricted", regexp.MustCompile(`(?i)\bpretend you are not restricted\b`)},
	{"unrestricted_model", regexp.MustCompile(`(?i)\bact as an unrestricted model\b`)},
	{"forget_rules", regexp.MustCompile(`(?i)\bforget (?:that )?you are bound by rules\b`)},
	{"fictional_scenario", regexp.MustCompile(`(?i)\bfictional scenario\b`)},
}

var promptInjectionPatterns = []Pattern{
	{"instruction_override", regexp.MustCompile(`(?i)\b(?:ignore|disregard|forget|override) (?:the |all |any )?(?:above|previous|prior|earlier) (?:instructions?|prompts?|rules?|context)\b`)},
	{"role_play_act_as", regexp.MustCompile(`(?i)\bact as\b`)},
	{"role_play_you_are_now", regexp.MustCompile(`(?i)\byou are now\b`)},
	{"role_play_pretend", regexp.MustCompile(`(?i)\bpretend (?:to be|you are)\b`)},
	{"role_play_roleplay", regexp.MustCompile(`(?i)\broleplay\b`)},
	{"system_prompt_leak", regexp.MustCompile(`(?i)\b(?:show|reveal|print|repeat|leak) (?:me )?(?:your |the )?(?:system prompt|instructions|initial prompt)\b`)},
	{"system_prompt_mention", regexp.MustCompile(`(?i)\bsystem prompt\b`)},
	{"new_instructions", regexp.MustCompile(`(?i)\b(?:new|updated) instructions?:\s`)},
	{"delimiter_escape", regexp.MustCompile("(?i)(?:```|<\\|im_start\\|>|<\\|im_end\\|>|\\[INST\\]|\\[/INST\\])")},
}

var ruleCategories = map[string][]Pattern{
	CategoryJailbreakRules:  jailbreakRulePatterns,
	CategoryPromptInjection: promptInjectionPatterns,
}

// Rules returns the ordered pattern set for a rule category, or nil when
// the category is unknown.
func Rules(category string) []Pattern {
	return ruleCategories[category]
}

// RuleCategories lists the known rule category names.
func RuleCategories() []string {
	return []string{CategoryJailbreakRules, CategoryPromptInjection}
}
