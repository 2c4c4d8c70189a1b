package moderation

import (
	"fmt"
	"regexp"
	"strings"
)

// Signal marks pattern groups whose matches the resolver needs to see
// independently of the category score.
type Signal int

const (
	NoSignal Signal = iota
	MinorsSignal
)

// GroupDefinition declares one pattern group of a category. Definitions are
// compiled into a PatternSet once and never touched again.
type GroupDefinition struct {
	Category    Category `mapstructure:"category"`
	Name        string   `mapstructure:"name"`
	Pattern     string   `mapstructure:"pattern"`
	Weight      float64  `mapstructure:"weight"`
	Obfuscation bool     `mapstructure:"obfuscation"`
	Signal      Signal   `mapstructure:"-"`
}

type patternGroup struct {
	category    Category
	name        string
	re          *regexp.Regexp
	weight      float64
	obfuscation bool
	signal      Signal
}

func (g *patternGroup) count(text string) int {
	return len(g.re.FindAllStringIndex(text, -1))
}

// PatternSet is an immutable arena of compiled pattern groups. It is safe to
// share between goroutines.
type PatternSet struct {
	groups         []patternGroup
	byCategory     map[Category][]int
	hasObfuscation bool
}

// NewPatternSet validates and compiles the given definitions.
func NewPatternSet(defs []GroupDefinition) (*PatternSet, error) {
	ps := &PatternSet{
		groups:     make([]patternGroup, 0, len(defs)),
		byCategory: make(map[Category][]int, len(Categories)),
	}
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if !def.Category.Valid() {
			return nil, fmt.Errorf("%w: %q in group %q", ErrUnknownCategory, def.Category, def.Name)
		}
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("%w: group name cannot be empty", ErrInvalidPattern)
		}
		key := string(def.Category) + "/" + def.Name
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate group %s", ErrInvalidPattern, key)
		}
		seen[key] = struct{}{}
		if def.Pattern == "" {
			return nil, fmt.Errorf("%w: group %s has an empty pattern", ErrInvalidPattern, key)
		}
		if def.Weight <= 0 || def.Weight > 1 {
			return nil, fmt.Errorf("%w: group %s weight %v out of range (0, 1]", ErrInvalidPattern, key, def.Weight)
		}
		re, err := regexp.Compile("(?i)" + def.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: group %s: %v", ErrInvalidPattern, key, err)
		}
		ps.byCategory[def.Category] = append(ps.byCategory[def.Category], len(ps.groups))
		ps.groups = append(ps.groups, patternGroup{
			category:    def.Category,
			name:        def.Name,
			re:          re,
			weight:      def.Weight,
			obfuscation: def.Obfuscation,
			signal:      def.Signal,
		})
		if def.Obfuscation {
			ps.hasObfuscation = true
		}
	}
	return ps, nil
}

// Extend returns a new set holding the receiver's groups followed by defs.
// The receiver is left untouched.
func (ps *PatternSet) Extend(defs []GroupDefinition) (*PatternSet, error) {
	return NewPatternSet(append(ps.Definitions(), defs...))
}

// Definitions returns the source definitions of every group in the set.
func (ps *PatternSet) Definitions() []GroupDefinition {
	defs := make([]GroupDefinition, 0, len(ps.groups))
	for _, g := range ps.groups {
		defs = append(defs, GroupDefinition{
			Category:    g.category,
			Name:        g.name,
			Pattern:     strings.TrimPrefix(g.re.String(), "(?i)"),
			Weight:      g.weight,
			Obfuscation: g.obfuscation,
			Signal:      g.signal,
		})
	}
	return defs
}

// Len returns the number of groups in the set.
func (ps *PatternSet) Len() int {
	return len(ps.groups)
}

// GroupNames returns the group names declared for category c, in order.
func (ps *PatternSet) GroupNames(c Category) []string {
	idx := ps.byCategory[c]
	names := make([]string, 0, len(idx))
	for _, i := range idx {
		names = append(names, ps.groups[i].name)
	}
	return names
}

// DefaultPatternSet is compiled at package init and shared process-wide.
var DefaultPatternSet = mustPatternSet(defaultGroups)

func mustPatternSet(defs []GroupDefinition) *PatternSet {
	ps, err := NewPatternSet(defs)
	if err != nil {
		panic(err)
	}
	return ps
}

// threatTarget is the person an intent verb must be aimed at.
const threatTarget = `(?:you|u|ya|y'?all|him|her|them|everyone|everybody|all\s+of\s+you|(?:your|his|her|their)\s+(?:family|kids?|wife|husband|mom|mother|dad|father|friends?))`

// Subgroup weights. Minors content saturates the sexual category on a
// single hit.
var defaultGroups = []GroupDefinition{
	// Hate speech
	{
		Category:    HateSpeech,
		Name:        "racial",
		Weight:      0.4,
		Obfuscation: true,
		Pattern: `\b(?:nigg(?:er|a|uh)s?|chinks?|spics?|wetbacks?|gooks?|kikes?|sand\s*nigg\w*|ragheads?|towelheads?)\b|` +
			`\b(?:inferior|subhuman|filthy|dirty)\s+(?:race|races|blacks|whites|asians|mexicans|arabs|immigrants)\b|` +
			`\bgo\s+back\s+to\s+(?:your|ur)\s+(?:own\s+)?country\b|` +
			`\b(?:blacks|whites|asians|mexicans|arabs|immigrants)\s+are\s+(?:all\s+)?(?:animals|criminals|inferior|subhuman|apes|monkeys|vermin)\b`,
	},
	{
		Category:    HateSpeech,
		Name:        "religious",
		Weight:      0.35,
		Obfuscation: true,
		Pattern: `\b(?:muslims|jews|christians|hindus|sikhs|catholics)\s+are\s+(?:all\s+)?(?:terrorists|evil|vermin|parasites|animals|subhuman)\b|` +
			`\b(?:death|kill)\s+(?:to|all)\s+(?:the\s+)?(?:muslims|jews|christians|hindus|infidels)\b|` +
			`\b(?:christ\s*killers|jihadi\s+scum)\b`,
	},
	{
		Category:    HateSpeech,
		Name:        "homophobic",
		Weight:      0.35,
		Obfuscation: true,
		Pattern: `\b(?:fags?|faggots?|dykes?|trann(?:y|ies)|homos)\b|` +
			`\b(?:gays?|queers?|lesbians?|trans\s+people)\s+(?:are|should)\s+(?:all\s+)?(?:be\s+)?(?:sick|disgusting|abominations?|perverts|burn|die)\b`,
	},
	{
		Category:    HateSpeech,
		Name:        "sexist",
		Weight:      0.3,
		Obfuscation: true,
		Pattern: `\bwomen\s+(?:are|belong)\s+(?:(?:all\s+)?(?:inferior|property|stupid|objects)|in\s+the\s+kitchen)\b|` +
			`\b(?:feminazis?|femoids?|foids?)\b|` +
			`\bmake\s+me\s+a\s+sandwich\b`,
	},
	{
		Category:    HateSpeech,
		Name:        "ableist",
		Weight:      0.25,
		Obfuscation: true,
		Pattern:     `\b(?:retards?|retarded|spaz|spastic|mongoloids?|cripples?)\b`,
	},

	// Harassment
	{
		Category:    Harassment,
		Name:        "insults",
		Weight:      0.25,
		Obfuscation: true,
		Pattern:     `\b(?:idiots?|morons?|losers?|stupid|dumb(?:ass)?|imbeciles?|pathetic|worthless|fat\s+(?:pig|cow|slob)|clowns?|freaks?|scum)\b`,
	},
	{
		Category:    Harassment,
		Name:        "directed",
		Weight:      0.4,
		Obfuscation: true,
		Pattern: `\b(?:you|u|ur|you'?re)\s+(?:are\s+|r\s+)?(?:such\s+|so\s+)?(?:an?\s+)?(?:total\s+|complete\s+|stupid\s+)?` +
			`(?:idiot|moron|loser|stupid|dumb|pathetic|worthless|useless|ugly|trash|garbage|disgusting|failure|joke|waste\s+of\s+space)\b`,
	},
	{
		Category:    Harassment,
		Name:        "bullying",
		Weight:      0.4,
		Obfuscation: true,
		Pattern: `\b(?:nobody|no\s+one)\s+(?:likes|loves|cares\s+about|wants)\s+you\b|` +
			`\beveryone\s+hates\s+you\b|\bkys\b|\bgo\s+die\b|\b(?:go\s+)?kill\s+yourself\b|` +
			`\byou\s+should\s+(?:die|disappear)\b`,
	},
	{
		Category:    Harassment,
		Name:        "intimidation",
		Weight:      0.3,
		Obfuscation: true,
		Pattern:     `\bi\s+know\s+where\s+you\s+(?:live|work|sleep)\b|\bshut\s+(?:up|your\s+mouth)\b|\bget\s+lost\b|\bwatch\s+yourself\b`,
	},

	// Threats: stated intent outweighs vocabulary alone.
	{
		Category: Threats,
		Name:     "intent",
		Weight:   0.4,
		Pattern: `\b(?:i\s*(?:'?m|\s+am)\s+(?:going\s+to|gonna)|i\s*(?:'?ll|\s+will)|i\s+want\s+to|` +
			`we\s*(?:'?re|\s+are)\s+(?:going\s+to|gonna)|we\s*(?:'?ll|\s+will)|gonna|going\s+to)\s+` +
			`(?:(?:kill|hurt|shoot|stab|murder|strangle|bomb|beat)\s+` + threatTarget + `|burn\s+(?:you|your|down))\b|` +
			`\byou(?:'?re|\s+are)\s+(?:dead|going\s+to\s+die|gonna\s+die)\b|` +
			`\bwatch\s+your\s+back\b|\byour\s+days\s+are\s+numbered\b`,
	},
	{
		Category: Threats,
		Name:     "violence",
		Weight:   0.3,
		Pattern: `\b(?:kill(?:s|ed|ing)?|murder\w*|shoot(?:s|ing)?|stab(?:s|bed|bing)?|strangle\w*|guns?|knife|knives|` +
			`rifles?|shotguns?|pistols?|bullets?|bombs?|explosives?|massacre\w*|slaughter\w*|behead\w*|lynch\w*)\b`,
	},

	// Sexual
	{
		Category: Sexual,
		Name:     "explicit",
		Weight:   0.3,
		Pattern:  `\b(?:porn\w*|nudes?|naked|xxx|nsfw|blowjobs?|handjobs?|orgasms?|masturbat\w*|horny|erotic\w*|sex\s+(?:tape|video|chat|acts?))\b`,
	},
	{
		Category: Sexual,
		Name:     "solicitation",
		Weight:   0.4,
		Pattern: `\b(?:send|show)\s+(?:me\s+)?(?:your\s+|ur\s+)?(?:nudes|naked\s+pics|boobs|tits|dick|body)\b|` +
			`\b(?:wanna|want\s+to|let'?s)\s+(?:have\s+sex|hook\s*up|fuck|bang)\b|\bsext(?:ing)?\b`,
	},
	{
		Category: Sexual,
		Name:     "anatomy",
		Weight:   0.25,
		Pattern:  `\b(?:penis|vagina|boobs|tits|genitals?|cock|pussy)\b`,
	},
	{
		Category: Sexual,
		Name:     "minors",
		Weight:   1.0,
		Signal:   MinorsSignal,
		Pattern: `\b(?:child|children|kids?|minors?|underage|pre-?teens?|toddlers?|loli)\s+` +
			`(?:porn\w*|nudes?|naked|explicit|erotic\w*|sex\s+(?:videos?|pics?|images?|acts?))\b|` +
			`\b(?:porn\w*|sex|nudes?|naked|explicit)\s+(?:(?:of|with|involving)\s+)?(?:an?\s+)?` +
			`(?:child|children|kids?|minors?|underage|pre-?teens?)\b|` +
			`\bchild\s+(?:sexual\s+)?abuse\s+material\b|\bcsam\b|\bjailbait\b`,
	},

	// Self-harm
	{
		Category: SelfHarm,
		Name:     "intent",
		Weight:   0.4,
		Pattern: `\b(?:i\s*(?:'?m|\s+am)\s+(?:going\s+to|gonna)|i\s+(?:want|need|plan)\s+to|i\s*(?:'?ll|\s+will))\s+` +
			`(?:kill\s+myself|end\s+(?:it\s+all|my\s+life)|commit\s+suicide|hurt\s+myself|cut\s+myself|take\s+my\s+(?:own\s+)?life)\b|` +
			`\bi\s+(?:want|wish)\s+(?:to\s+die|i\s+(?:was|were)\s+dead)\b|` +
			`\bi\s*(?:'?m|\s+am)\s+suicidal\b`,
	},
	{
		Category: SelfHarm,
		Name:     "methods",
		Weight:   0.4,
		Pattern: `\bhow\s+(?:to|do\s+i|can\s+i)\s+(?:kill\s+myself|commit\s+suicide|overdose|slit\s+my\s+wrists?|hang\s+myself|end\s+my\s+life)\b|` +
			`\b(?:best|easiest|quickest|painless)\s+(?:way|ways|method|methods)\s+(?:to\s+)?(?:die|kill\s+myself|commit\s+suicide)\b|` +
			`\bhow\s+many\s+pills\s+(?:to|would|does\s+it\s+take)\b`,
	},
	{
		Category: SelfHarm,
		Name:     "references",
		Weight:   0.3,
		Pattern:  `\b(?:suicide|suicidal|self[\s-]?harm(?:ing)?|kill(?:ing)?\s+myself|end(?:ing)?\s+my\s+life|cutting\s+myself|overdos(?:e|ing))\b`,
	},

	// Extremism
	{
		Category: Extremism,
		Name:     "recruitment",
		Weight:   0.4,
		Pattern: `\b(?:join|support|fight\s+for|pledge\s+(?:allegiance|loyalty)\s+to)\s+(?:the\s+)?` +
			`(?:jihad|caliphate|isis|isil|daesh|al[\s-]?qaeda|taliban|kkk|ku\s+klux\s+klan|neo[\s-]?nazis?|aryan\s+(?:brotherhood|nations?))\b|` +
			`\brecruit(?:ing)?\s+(?:for|fighters\s+for)\s+(?:the\s+)?(?:jihad|caliphate|isis|cause)\b`,
	},
	{
		Category: Extremism,
		Name:     "glorification",
		Weight:   0.35,
		Pattern:  `\b(?:heil\s+hitler|sieg\s+heil|white\s+power|14\s*88|race\s+war\s+now|rahowa|glory\s+to\s+the\s+martyrs|martyrdom\s+operations?)\b`,
	},
	{
		Category: Extremism,
		Name:     "references",
		Weight:   0.25,
		Pattern:  `\b(?:isis|isil|daesh|al[\s-]?qaeda|jihad(?:is?t?s?)?|nazis?|kkk|white\s+supremac\w*|ethnic\s+cleansing|caliphate|great\s+replacement)\b`,
	},

	// Profanity: scored as density, see Analyzer.
	{
		Category:    Profanity,
		Name:        "mild",
		Weight:      0.4,
		Obfuscation: true,
		Pattern:     `\b(?:damn(?:ed|it)?|dammit|hell|crap(?:py)?|bloody|piss(?:ed)?|ass|arse|bugger|freaking|frick(?:ing)?|screw\s+(?:you|this|that))\b`,
	},
	{
		Category:    Profanity,
		Name:        "strong",
		Weight:      0.8,
		Obfuscation: true,
		Pattern: `\b(?:f[u*]+c?k+\w*|sh[i*]+t\w*|b[i*]tch\w*|c[u*]nts?|motherf\w*|assholes?|bullsh[i*]t|` +
			`d[i*]ck(?:s|head)?|cocks?|twats?|wankers?|bastards?|whores?|sluts?)\b`,
	},
}

// densityCategories are normalized by the word count of the input rather
// than summed as absolute counts.
var densityCategories = map[Category]bool{
	Profanity: true,
}
