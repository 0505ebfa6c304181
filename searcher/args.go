package searcher

// Default search hyperparameters

const DefaultSimulations = 100

const DefaultExploration = 1.0

// Rollouts stop at this depth when the domain never reaches a terminal
// state on its own.
const DefaultMaxDepth = 50
