package main

var (
	HeroTagline = `I build web applications that are fast, accessible and pleasant to use.
	Below is a snapshot of what I work with and a few projects I am proud of.`

	AboutIntro = `A little more about me, the tools I reach for every day, and the
	projects that best show how I like to work.`

	AdminIntro = `Every change made here is an action applied by the portfolio store.
	The debug panel shows the resulting state and the most recent actions.`
)
