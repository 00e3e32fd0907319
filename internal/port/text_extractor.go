package port

// TextExtractor converts raw document bytes into plain text. Stateless and
// deterministic given identical bytes. Scanned documents yield empty or
// near-empty text without error; the minimum-length gate belongs to the
// orchestrator.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}
