// Package format lowers a parsed JSON document into the document IR and
// prints it.
//
// Назначение: единая точка входа форматирования файла и диапазона, проверка
// идемпотентности, привязка комментариев к узлам.
// Не делает: чтения файлов, кеширования, вывода диагностик (это driver).
// Зависимости: internal/jsonc, internal/comments, internal/doc, internal/printer.
package format
