// Package analyzer turns free text into word statistics: it splits text into
// tokens, keeps the ones that are real words, normalizes them and counts them.
package analyzer

// TextMetadata summarizes the words of a single text.
type TextMetadata struct {
	WordCount      int
	MostCommonWord string
}

// WordCount represents a normalized word and its frequency.
type WordCount struct {
	Word  string
	Count int
}

// FrequencyTable counts words and remembers the order they were first seen in.
type FrequencyTable struct {
	index map[string]int
	words []WordCount
}

// NewFrequencyTable creates an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{index: make(map[string]int)}
}

// Add records one occurrence of word.
func (ft *FrequencyTable) Add(word string) {
	if i, ok := ft.index[word]; ok {
		ft.words[i].Count++
		return
	}
	ft.index[word] = len(ft.words)
	ft.words = append(ft.words, WordCount{Word: word, Count: 1})
}

// Count returns how many times word was added.
func (ft *FrequencyTable) Count(word string) int {
	if i, ok := ft.index[word]; ok {
		return ft.words[i].Count
	}
	return 0
}

// Len returns the number of distinct words.
func (ft *FrequencyTable) Len() int {
	return len(ft.words)
}

// MostCommon returns the word with the highest count. Among equally frequent
// words the one added first wins. An empty table yields "".
func (ft *FrequencyTable) MostCommon() string {
	result, maxFound := "", 0
	for _, wc := range ft.words {
		if wc.Count > maxFound {
			maxFound = wc.Count
			result = wc.Word
		}
	}
	return result
}

// Analyze counts the real words of text and finds the most frequent one.
func Analyze(text string) TextMetadata {
	table := NewFrequencyTable()
	realWords := 0

	for _, token := range Tokenize(text) {
		if !IsRealWord(token) {
			continue
		}
		table.Add(ExtractWord(token))
		realWords++
	}

	return TextMetadata{
		WordCount:      realWords,
		MostCommonWord: table.MostCommon(),
	}
}
