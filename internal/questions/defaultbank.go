package questions

import "math/rand"

// NewDefaultBank returns the built-in question sets seeded with a
// time-independent source supplied by the caller.
func NewDefaultBank(src rand.Source) *InMemoryBank {
	return NewInMemoryBank(defaultQuestions, src)
}

var defaultQuestions = map[string][]Question{
	"javascript": {
		{
			Id:          "js-1",
			Title:       "Array Sum",
			Description: "Write a function that takes an array of numbers and returns the sum of all the numbers.",
			Difficulty:  Easy,
			Examples: []Example{
				{Input: "[1, 2, 3]", Output: "6"},
				{Input: "[-1, 0, 1]", Output: "0"},
			},
			TestCases: []TestCase{
				{Input: "[1, 2, 3, 4]", Output: "10"},
				{Input: "[]", Output: "0"},
				{Input: "[10, -10]", Output: "0"},
			},
			StarterCode: "function sumArray(arr) {\n  // Your code here\n}",
		},
		{
			Id:          "js-2",
			Title:       "String Length",
			Description: "Write a function that returns the length of a string without using the built-in length property.",
			Difficulty:  Easy,
			Examples: []Example{
				{Input: `"hello"`, Output: "5"},
				{Input: `""`, Output: "0"},
			},
			TestCases: []TestCase{
				{Input: `"JavaScript"`, Output: "10"},
				{Input: `" "`, Output: "1"},
				{Input: `"a"`, Output: "1"},
			},
			StarterCode: "function getLength(str) {\n  // Your code here\n}",
		},
		{
			Id:          "js-3",
			Title:       "Even Numbers Filter",
			Description: "Write a function that filters out even numbers from an array.",
			Difficulty:  Easy,
			Examples: []Example{
				{Input: "[1, 2, 3, 4, 5]", Output: "[2, 4]"},
				{Input: "[1, 3, 5]", Output: "[]"},
			},
			TestCases: []TestCase{
				{Input: "[10, 15, 20, 25]", Output: "[10, 20]"},
				{Input: "[]", Output: "[]"},
				{Input: "[2, 4, 6]", Output: "[2, 4, 6]"},
			},
			StarterCode: "function filterEvens(arr) {\n  // Your code here\n}",
		},
		{
			Id:          "js-4",
			Title:       "Palindrome Check",
			Description: "Write a function that checks if a given string is a palindrome (reads the same backward as forward). Ignore spaces and case.",
			Difficulty:  Medium,
			Examples: []Example{
				{Input: `"racecar"`, Output: "true"},
				{Input: `"hello"`, Output: "false"},
			},
			TestCases: []TestCase{
				{Input: `"A man a plan a canal Panama"`, Output: "true"},
				{Input: `"race a car"`, Output: "false"},
				{Input: `"Madam"`, Output: "true"},
			},
			StarterCode: "function isPalindrome(str) {\n  // Your code here\n}",
		},
		{
			Id:          "js-5",
			Title:       "Find Duplicates",
			Description: "Write a function that finds all duplicate elements in an array.",
			Difficulty:  Medium,
			Examples: []Example{
				{Input: "[1, 2, 3, 2, 4, 1]", Output: "[1, 2]"},
				{Input: "[1, 2, 3]", Output: "[]"},
			},
			TestCases: []TestCase{
				{Input: `["a", "b", "a", "c", "b"]`, Output: `["a", "b"]`},
				{Input: "[]", Output: "[]"},
				{Input: "[5, 5, 5]", Output: "[5]"},
			},
			StarterCode: "function findDuplicates(arr) {\n  // Your code here\n}",
		},
		{
			Id:          "js-6",
			Title:       "Binary Search",
			Description: "Implement binary search algorithm to find the index of a target value in a sorted array.",
			Difficulty:  Medium,
			Examples: []Example{
				{Input: "[1, 3, 5, 7, 9], 5", Output: "2"},
				{Input: "[1, 3, 5, 7, 9], 6", Output: "-1"},
			},
			TestCases: []TestCase{
				{Input: "[2, 4, 6, 8, 10], 8", Output: "3"},
				{Input: "[1], 1", Output: "0"},
				{Input: "[], 5", Output: "-1"},
			},
			StarterCode: "function binarySearch(arr, target) {\n  // Your code here\n}",
		},
		{
			Id:          "js-7",
			Title:       "Longest Common Subsequence",
			Description: "Find the length of the longest common subsequence between two strings.",
			Difficulty:  Hard,
			Examples: []Example{
				{Input: `"abcde", "ace"`, Output: "3"},
				{Input: `"abc", "def"`, Output: "0"},
			},
			TestCases: []TestCase{
				{Input: `"ABCDGH", "AEDFHR"`, Output: "3"},
				{Input: `"AGGTAB", "GXTXAYB"`, Output: "4"},
				{Input: `"", "abc"`, Output: "0"},
			},
			StarterCode: "function longestCommonSubsequence(text1, text2) {\n  // Your code here\n}",
		},
		{
			Id:          "js-8",
			Title:       "Valid Parentheses",
			Description: "Check if a string of parentheses, brackets, and braces is valid (properly closed and nested).",
			Difficulty:  Hard,
			Examples: []Example{
				{Input: `"()"`, Output: "true"},
				{Input: `"([)]"`, Output: "false"},
			},
			TestCases: []TestCase{
				{Input: `"{[]}"`, Output: "true"},
				{Input: `"((("`, Output: "false"},
				{Input: `""`, Output: "true"},
			},
			StarterCode: "function isValid(s) {\n  // Your code here\n}",
		},
	},
	"python": {
		{
			Id:          "py-1",
			Title:       "List Average",
			Description: "Write a function that calculates the average of numbers in a list.",
			Difficulty:  Easy,
			Examples: []Example{
				{Input: "[1, 2, 3]", Output: "2.0"},
				{Input: "[10, 20, 30, 40]", Output: "25.0"},
			},
			TestCases: []TestCase{
				{Input: "[5, 5, 5, 5]", Output: "5.0"},
				{Input: "[-1, 0, 1]", Output: "0.0"},
				{Input: "[]", Output: "0.0"},
			},
			StarterCode: "def average(lst):\n    # Your code here\n    pass",
		},
		{
			Id:          "py-2",
			Title:       "Count Vowels",
			Description: "Write a function that counts the number of vowels in a string.",
			Difficulty:  Easy,
			Examples: []Example{
				{Input: `"hello"`, Output: "2"},
				{Input: `"python"`, Output: "1"},
			},
			TestCases: []TestCase{
				{Input: `"aeiou"`, Output: "5"},
				{Input: `"bcdfg"`, Output: "0"},
				{Input: `"Programming"`, Output: "3"},
			},
			StarterCode: "def count_vowels(s):\n    # Your code here\n    pass",
		},
		{
			Id:          "py-3",
			Title:       "Reverse String",
			Description: "Write a function that reverses a string without using built-in reverse methods.",
			Difficulty:  Easy,
			Examples: []Example{
				{Input: `"hello"`, Output: `"olleh"`},
				{Input: `"world"`, Output: `"dlrow"`},
			},
			TestCases: []TestCase{
				{Input: `"Python"`, Output: `"nohtyP"`},
				{Input: `""`, Output: `""`},
				{Input: `"a"`, Output: `"a"`},
			},
			StarterCode: "def reverse_string(s):\n    # Your code here\n    pass",
		},
		{
			Id:          "py-4",
			Title:       "Prime Number Check",
			Description: "Write a function that checks if a number is prime.",
			Difficulty:  Medium,
			Examples: []Example{
				{Input: "17", Output: "True"},
				{Input: "4", Output: "False"},
			},
			TestCases: []TestCase{
				{Input: "2", Output: "True"},
				{Input: "1", Output: "False"},
				{Input: "97", Output: "True"},
			},
			StarterCode: "def is_prime(n):\n    # Your code here\n    pass",
		},
		{
			Id:          "py-5",
			Title:       "Anagram Check",
			Description: "Check if two strings are anagrams of each other.",
			Difficulty:  Medium,
			Examples: []Example{
				{Input: `"listen", "silent"`, Output: "True"},
				{Input: `"hello", "world"`, Output: "False"},
			},
			TestCases: []TestCase{
				{Input: `"race", "care"`, Output: "True"},
				{Input: `"rat", "car"`, Output: "False"},
				{Input: `"", ""`, Output: "True"},
			},
			StarterCode: "def are_anagrams(s1, s2):\n    # Your code here\n    pass",
		},
		{
			Id:          "py-6",
			Title:       "Longest Increasing Subsequence",
			Description: "Find the length of the longest increasing subsequence in an array.",
			Difficulty:  Hard,
			Examples: []Example{
				{Input: "[10, 9, 2, 5, 3, 7, 101, 18]", Output: "4"},
				{Input: "[0, 1, 0, 3, 2, 3]", Output: "4"},
			},
			TestCases: []TestCase{
				{Input: "[7, 7, 7, 7, 7, 7, 7]", Output: "1"},
				{Input: "[]", Output: "0"},
				{Input: "[1, 3, 6, 7, 9, 4, 10, 5, 6]", Output: "6"},
			},
			StarterCode: "def length_of_lis(nums):\n    # Your code here\n    pass",
		},
	},
}
