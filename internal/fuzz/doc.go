// Package fuzztests houses Go fuzz harnesses that exercise the formatting
// pipeline (source -> lexer -> parser -> lowering -> printer). Its goal is to
// smoke test robustness and guard against panics, hangs and lost content on
// arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер
// и форматтер, проверяя свойства результата.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/jsonc,
// internal/format, internal/testkit.

package fuzztests
