// Package codec converts translation leaf values to the text stored in the
// value column and back.
//
// Booleans are stored as the control-character sentinels TrueSentinel and
// FalseSentinel; every other value is stored as its YAML serialisation so
// strings, numbers, lists and nil all survive the round trip. Translation
// content must never contain the sentinel characters on their own: a string
// equal to a sentinel reads back as a boolean.
//
// Deferred values are callbacks registered by name in a Registry. Only the
// name is persisted; reading a deferred record resolves the name against the
// registry and yields the live Proc. Stored text is never evaluated.
package codec
