package words

// english is the default Latin-script stop list. Entries are folded through the
// same normalization as tokens when the set is built, so "don't" also matches
// the stripped token "dont".
var english = []string{
	"a", "about", "above", "across", "after", "afterwards", "again", "against", "all",
	"almost", "alone", "along", "already", "also", "although", "always", "am", "among",
	"an", "and", "another", "any", "anyhow", "anyone", "anything", "anyway", "anywhere",
	"are", "aren't", "around", "as", "at", "be", "became", "because", "become", "becomes",
	"been", "before", "beforehand", "behind", "being", "below", "beside", "besides",
	"between", "beyond", "both", "but", "by", "can", "can't", "cannot", "could",
	"couldn't", "did", "didn't", "do", "does", "doesn't", "doing", "don't", "done",
	"down", "due", "during", "each", "either", "else", "elsewhere", "enough", "etc",
	"even", "ever", "every", "everyone", "everything", "everywhere", "except", "few",
	"for", "former", "formerly", "from", "further", "had", "hadn't", "has", "hasn't",
	"have", "haven't", "having", "he", "he'd", "he'll", "he's", "hence", "her", "here",
	"here's", "hereafter", "hereby", "herein", "hers", "herself", "him", "himself", "his",
	"how", "how's", "however", "i", "i'd", "i'll", "i'm", "i've", "ie", "if", "in",
	"indeed", "into", "is", "isn't", "it", "it's", "its", "itself", "just", "let", "let's",
	"many", "may", "me", "meanwhile", "might", "mine", "more", "moreover", "most",
	"mostly", "much", "must", "mustn't", "my", "myself", "namely", "neither", "never",
	"nevertheless", "next", "no", "nobody", "none", "nor", "not", "nothing", "now",
	"nowhere", "of", "off", "often", "on", "once", "one", "only", "onto", "or", "other",
	"others", "otherwise", "ought", "our", "ours", "ourselves", "out", "over", "own",
	"per", "perhaps", "rather", "same", "shall", "shan't", "she", "she'd", "she'll",
	"she's", "should", "shouldn't", "since", "so", "some", "somehow", "someone",
	"something", "sometime", "sometimes", "somewhere", "still", "such", "than", "that",
	"that's", "the", "their", "theirs", "them", "themselves", "then", "thence", "there",
	"there's", "thereafter", "thereby", "therefore", "therein", "these", "they",
	"they'd", "they'll", "they're", "they've", "this", "those", "though", "through",
	"throughout", "thru", "thus", "to", "together", "too", "toward", "towards", "under",
	"until", "up", "upon", "us", "very", "via", "was", "wasn't", "we", "we'd", "we'll",
	"we're", "we've", "were", "weren't", "what", "what's", "whatever", "when", "when's",
	"whence", "whenever", "where", "where's", "whereas", "whereby", "wherein",
	"whereupon", "wherever", "whether", "which", "while", "who", "who's", "whoever",
	"whole", "whom", "whose", "why", "why's", "will", "with", "within", "without",
	"won't", "would", "wouldn't", "yet", "you", "you'd", "you'll", "you're", "you've",
	"your", "yours", "yourself", "yourselves",
}

// Stopwords returns a copy of the default stop list.
func Stopwords() []string {
	out := make([]string, len(english))
	copy(out, english)
	return out
}
