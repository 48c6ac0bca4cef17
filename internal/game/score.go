package game

// Score evaluates guess against target with the two-pass rule.
//
// Pass 1 marks exact matches Green and counts the target letters left unmatched.
// Pass 2 marks each remaining guess letter Yellow while unmatched copies remain,
// otherwise Black. A repeated guess letter therefore never earns more Yellow+Green
// marks than the target holds, and Green always wins over Yellow.
//
// Both words must be five uppercase letters A–Z.
func Score(guess, target string) Result {
	var (
		res    Result
		counts [26]int
		green  [WordLen]bool
	)
	for i := 0; i < WordLen; i++ {
		if guess[i] == target[i] {
			res[i] = Green
			green[i] = true
		} else {
			counts[target[i]-'A']++
		}
	}
	for i := 0; i < WordLen; i++ {
		if green[i] {
			continue
		}
		j := guess[i] - 'A'
		if counts[j] > 0 {
			res[i] = Yellow
			counts[j]--
		} else {
			res[i] = Black
		}
	}
	return res
}
