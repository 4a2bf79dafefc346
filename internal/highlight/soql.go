package highlight

import "github.com/alecthomas/chroma/v2"

// Soql is the grammar for the Salesforce Object Query Language: SQL-shaped
// keywords matched case-insensitively, aggregate and date functions,
// relative-date literals, and Apex bind variables.
var Soql = chroma.Coalesce(chroma.MustNewLexer(
	&chroma.Config{
		Name:            "SOQL",
		Aliases:         []string{"soql"},
		MimeTypes:       []string{"text/x-soql"},
		CaseInsensitive: true,
		EnsureNL:        true,
	},
	soqlRules,
))

func soqlRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			// Strings before keywords so a quoted keyword stays a string.
			{Pattern: `\s+`, Type: chroma.TextWhitespace, Mutator: nil},
			{Pattern: `'(\\\\|\\'|[^'\n])*'`, Type: chroma.LiteralStringSingle, Mutator: nil},
			{Pattern: `(last_n_days|next_n_days|last_n_weeks|next_n_weeks|last_n_months|next_n_months|last_n_quarters|next_n_quarters|last_n_years|next_n_years|last_n_fiscal_quarters|next_n_fiscal_quarters|last_n_fiscal_years|next_n_fiscal_years)\s*:\s*\d+`, Type: chroma.KeywordConstant, Mutator: nil},
			{Pattern: chroma.Words(``, `\b`,
				`yesterday`, `today`, `tomorrow`,
				`last_week`, `this_week`, `next_week`,
				`last_month`, `this_month`, `next_month`,
				`last_90_days`, `next_90_days`,
				`last_quarter`, `this_quarter`, `next_quarter`,
				`last_year`, `this_year`, `next_year`,
				`last_fiscal_quarter`, `this_fiscal_quarter`, `next_fiscal_quarter`,
				`last_fiscal_year`, `this_fiscal_year`, `next_fiscal_year`,
			), Type: chroma.KeywordConstant, Mutator: nil},
			{Pattern: chroma.Words(``, `(?=\s*\()`,
				`count`, `count_distinct`, `sum`, `avg`, `min`, `max`, `grouping`,
				`format`, `convertcurrency`, `tolabel`, `converttimezone`,
				`calendar_month`, `calendar_quarter`, `calendar_year`,
				`fiscal_month`, `fiscal_quarter`, `fiscal_year`,
				`day_only`, `day_in_month`, `day_in_week`, `day_in_year`,
				`hour_in_day`, `week_in_month`, `week_in_year`,
			), Type: chroma.NameFunction, Mutator: nil},
			{Pattern: `(group|order)(\s+)(by)\b`, Type: chroma.ByGroups(chroma.Keyword, chroma.TextWhitespace, chroma.Keyword), Mutator: nil},
			{Pattern: `(nulls)(\s+)(first|last)\b`, Type: chroma.ByGroups(chroma.Keyword, chroma.TextWhitespace, chroma.Keyword), Mutator: nil},
			{Pattern: `(for)(\s+)(update|view|reference)\b`, Type: chroma.ByGroups(chroma.Keyword, chroma.TextWhitespace, chroma.Keyword), Mutator: nil},
			{Pattern: `(all)(\s+)(rows)\b`, Type: chroma.ByGroups(chroma.Keyword, chroma.TextWhitespace, chroma.Keyword), Mutator: nil},
			{Pattern: `(using)(\s+)(scope)\b`, Type: chroma.ByGroups(chroma.Keyword, chroma.TextWhitespace, chroma.Keyword), Mutator: nil},
			{Pattern: chroma.Words(``, `\b`,
				`select`, `from`, `where`, `having`, `limit`, `offset`, `with`,
				`typeof`, `when`, `then`, `else`, `end`, `asc`, `desc`,
				`update`, `tracking`, `viewstat`,
			), Type: chroma.Keyword, Mutator: nil},
			{Pattern: chroma.Words(``, `\b`, `and`, `or`, `not`, `like`, `in`, `includes`, `excludes`), Type: chroma.OperatorWord, Mutator: nil},
			{Pattern: chroma.Words(``, `\b`, `true`, `false`, `null`), Type: chroma.KeywordConstant, Mutator: nil},
			{Pattern: `:\s*[a-zA-Z_][\w.]*`, Type: chroma.NameVariable, Mutator: nil},
			{Pattern: `\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}([+-]\d{2}:\d{2}|Z)?)?`, Type: chroma.LiteralDate, Mutator: nil},
			{Pattern: `[0-9]+(\.[0-9]+)?`, Type: chroma.LiteralNumber, Mutator: nil},
			{Pattern: `[a-zA-Z_]\w*`, Type: chroma.Name, Mutator: nil},
			{Pattern: `[(),.=<>!+*/-]`, Type: chroma.Punctuation, Mutator: nil},
		},
	}
}
