package highlight

import "github.com/alecthomas/chroma/v2"

// Apex is the grammar for Salesforce Apex: Java-family syntax plus DML
// statement keywords, sharing modifiers, and annotations. Apex is
// case-insensitive, so the whole grammar is too.
var Apex = chroma.Coalesce(chroma.MustNewLexer(
	&chroma.Config{
		Name:            "Apex",
		Aliases:         []string{"apex"},
		Filenames:       []string{"*.cls", "*.trigger", "*.apex"},
		MimeTypes:       []string{"text/x-apex"},
		CaseInsensitive: true,
		DotAll:          true,
		EnsureNL:        true,
	},
	apexRules,
))

func apexRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			// Comments and strings first so their contents are consumed
			// atomically before any keyword rule can see them.
			{Pattern: `[^\S\n]+`, Type: chroma.TextWhitespace, Mutator: nil},
			{Pattern: `\n`, Type: chroma.TextWhitespace, Mutator: nil},
			{Pattern: `//.*?\n`, Type: chroma.CommentSingle, Mutator: nil},
			{Pattern: `/\*.*?\*/`, Type: chroma.CommentMultiline, Mutator: nil},
			{Pattern: `'(\\\\|\\'|[^'\n])*'`, Type: chroma.LiteralStringSingle, Mutator: nil},
			{Pattern: `"(\\\\|\\"|[^"\n])*"`, Type: chroma.LiteralStringDouble, Mutator: nil},
			{Pattern: `@[a-zA-Z_]\w*`, Type: chroma.NameDecorator, Mutator: nil},
			{Pattern: `(?:with|without|inherited)\s+sharing\b`, Type: chroma.KeywordDeclaration, Mutator: nil},
			{Pattern: `(class|trigger|interface|enum)(\s+)`, Type: chroma.ByGroups(chroma.KeywordDeclaration, chroma.TextWhitespace), Mutator: chroma.Push("classname")},
			{Pattern: chroma.Words(``, `\b`, `insert`, `update`, `upsert`, `delete`, `undelete`, `merge`), Type: chroma.Keyword, Mutator: nil},
			{Pattern: chroma.Words(``, `\b`,
				`abstract`, `break`, `catch`, `continue`, `default`, `do`, `else`,
				`extends`, `final`, `finally`, `for`, `global`, `if`, `implements`,
				`instanceof`, `new`, `override`, `private`, `protected`, `public`,
				`return`, `static`, `super`, `switch`, `testmethod`, `this`, `throw`,
				`transient`, `try`, `virtual`, `webservice`, `when`, `while`,
			), Type: chroma.Keyword, Mutator: nil},
			{Pattern: chroma.Words(``, `\b`, `true`, `false`, `null`), Type: chroma.KeywordConstant, Mutator: nil},
			{Pattern: chroma.Words(``, `\b`,
				`blob`, `boolean`, `date`, `datetime`, `decimal`, `double`, `id`,
				`integer`, `list`, `long`, `map`, `object`, `set`, `sobject`,
				`string`, `time`, `void`,
			), Type: chroma.KeywordType, Mutator: nil},
			{Pattern: `[a-zA-Z_$][\w$]*(?=\s*\()`, Type: chroma.NameFunction, Mutator: nil},
			{Pattern: `[a-zA-Z_$][\w$]*`, Type: chroma.Name, Mutator: nil},
			{Pattern: `[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?[lLdD]?`, Type: chroma.LiteralNumber, Mutator: nil},
			{Pattern: `[~^*!%&+=|?:<>/-]`, Type: chroma.Operator, Mutator: nil},
			{Pattern: `[{}()\[\];,.]`, Type: chroma.Punctuation, Mutator: nil},
		},
		"classname": {
			{Pattern: `[a-zA-Z_$][\w$]*`, Type: chroma.NameClass, Mutator: chroma.Pop(1)},
			chroma.Default(chroma.Pop(1)),
		},
	}
}
