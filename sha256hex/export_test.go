package sha256hex

// Exported aliases for testing internal functions from
// the sha256hex_test package.

// PadForTest exposes pad.
var PadForTest = pad

// SwapWordsForTest exposes swapWords.
var SwapWordsForTest = swapWords

// ScheduleForTest exposes schedule.
var ScheduleForTest = schedule

// BlockSize exposes blockSize.
const BlockSize = blockSize
