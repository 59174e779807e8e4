package game

import "math/rand"

var namePool = []string{
	"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Hank", "Ivy", "Jack",
	"Karen", "Leo", "Mona", "Nina", "Oscar", "Paul", "Quinn", "Rita", "Sam", "Tina",
	"Uma", "Vince", "Wendy", "Xander", "Yara", "Zane", "Aaron", "Abby", "Adrian", "Amber",
	"Andrea", "Barry", "Becky", "Brenda", "Caleb", "Carla", "Chloe", "Clara", "Colin", "Dale",
	"Dana", "Derek", "Doris", "Dylan", "Edith", "Elena", "Ellen", "Erin", "Felicia", "Fiona",
	"Gavin", "Gene", "Hazel", "Helen", "Igor", "Irene", "Jasper", "Joan", "Kurt", "Lena",
	"Lionel", "Mabel", "Marvin", "Nadia", "Norman", "Olive", "Otto", "Pearl", "Percy", "Rosa",
	"Rufus", "Sally", "Silas", "Thea", "Toby", "Ursula", "Vera", "Walt", "Wilma", "Yusuf",
}

var personalityPool = []string{
	"suspicious", "cheerful", "blunt", "nervous", "sarcastic", "calm", "stubborn",
	"talkative", "quiet", "impulsive", "analytical", "dramatic", "paranoid", "friendly",
	"arrogant", "shy", "loyal", "cynical", "curious", "hot-headed", "gullible", "cunning",
}

// PickNames returns n distinct names from the pool.
func PickNames(r *rand.Rand, n int) ([]string, error) {
	if n > len(namePool) {
		return nil, ErrNotEnoughNames
	}
	idx := r.Perm(len(namePool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = namePool[j]
	}
	return out, nil
}

func PickPersonality(r *rand.Rand) string {
	return personalityPool[r.Intn(len(personalityPool))]
}
