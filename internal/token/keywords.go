package token

var keywords = map[string]Kind{
	"true":  KwTrue,
	"false": KwFalse,
	"null":  KwNull,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: `True` остаётся Ident.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
