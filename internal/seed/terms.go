// Package seed holds the built-in term catalog used by the seed command and
// the in-memory dev mode.
package seed

import "techlingo-service/internal/domain"

// Terms returns the initial catalog. Every category and difficulty bucket
// carries at least four terms so filtered quizzes can always build a
// four-option question.
func Terms() []domain.Term {
	return []domain.Term{
		{
			Name:       "API",
			Definition: "Application Programming Interface - a set of rules and protocols that lets different software applications communicate with each other.",
			Category:   "Web Development",
			Difficulty: domain.DifficultyBeginner,
			CodeExample: code(`fetch('https://api.example.com/users')
  .then(response => response.json())
  .then(data => console.log(data));`),
			RealWorldExample: "A weather app on your phone uses an API to fetch forecast data from a remote server and display it to you.",
		},
		{
			Name:       "REST",
			Definition: "Representational State Transfer - an architectural style for networked applications built on stateless client-server communication, typically over HTTP.",
			Category:   "Web Development",
			Difficulty: domain.DifficultyBeginner,
			CodeExample: code(`GET    /api/users      // list users
POST   /api/users      // create a user
PUT    /api/users/1    // update user 1
DELETE /api/users/1    // delete user 1`),
			RealWorldExample: "REST is like a restaurant menu: you order specific items (requests) and the kitchen (server) prepares and delivers them (responses).",
		},
		{
			Name:             "DOM",
			Definition:       "Document Object Model - the tree-shaped in-memory representation of a web page that scripts read and modify to change what the browser shows.",
			Category:         "Web Development",
			Difficulty:       domain.DifficultyBeginner,
			CodeExample:      code(`document.getElementById('title').textContent = 'Hello';`),
			RealWorldExample: "When a like counter updates without reloading the page, a script changed the DOM node holding the number.",
		},
		{
			Name:             "Webhook",
			Definition:       "A user-defined HTTP callback: one system pushes a request to another system's URL as soon as an event happens, instead of the receiver polling for changes.",
			Category:         "Web Development",
			Difficulty:       domain.DifficultyIntermediate,
			RealWorldExample: "A payment provider calls your shop's webhook the moment a charge succeeds, so the order ships without anyone checking a dashboard.",
		},
		{
			Name:             "CORS",
			Definition:       "Cross-Origin Resource Sharing - a browser mechanism that uses HTTP headers to decide whether a page from one origin may read responses from another origin.",
			Category:         "Web Development",
			Difficulty:       domain.DifficultyIntermediate,
			CodeExample:      code(`Access-Control-Allow-Origin: https://app.example.com`),
			RealWorldExample: "A frontend on app.example.com can only call api.example.com because the API explicitly allows that origin in its CORS headers.",
		},
		{
			Name:       "Recursion",
			Definition: "A technique where a function solves a problem by calling itself on smaller inputs until it reaches a base case.",
			Category:   "Programming",
			Difficulty: domain.DifficultyBeginner,
			CodeExample: code(`func factorial(n int) int {
	if n <= 1 {
		return 1
	}
	return n * factorial(n-1)
}`),
			RealWorldExample: "Searching a folder tree is recursive: to search a folder you search each of its subfolders the same way.",
		},
		{
			Name:       "Closure",
			Definition: "A function bundled together with the variables from the scope it was created in, which it keeps access to even after that scope has exited.",
			Category:   "Programming",
			Difficulty: domain.DifficultyIntermediate,
			CodeExample: code(`func counter() func() int {
	n := 0
	return func() int { n++; return n }
}`),
			RealWorldExample: "Each call to counter() hands out a function that remembers its own private n, like a ticket dispenser with its own roll.",
		},
		{
			Name:             "Mutex",
			Definition:       "Mutual exclusion lock - a synchronization primitive that lets only one thread of execution enter a critical section at a time.",
			Category:         "Programming",
			Difficulty:       domain.DifficultyIntermediate,
			CodeExample: code(`mu.Lock()
count++
mu.Unlock()`),
			RealWorldExample: "A mutex works like the key to a single-occupancy restroom: whoever holds the key gets in, everyone else waits.",
		},
		{
			Name:             "Garbage Collection",
			Definition:       "Automatic memory management: the runtime finds objects a program can no longer reach and reclaims their memory.",
			Category:         "Programming",
			Difficulty:       domain.DifficultyBeginner,
			RealWorldExample: "Like a hotel cleaning service, the garbage collector reclaims rooms (memory) after guests (objects) check out, so you never free them by hand.",
		},
		{
			Name:             "Race Condition",
			Definition:       "A bug where the outcome depends on the unpredictable timing of concurrent operations touching shared state.",
			Category:         "Programming",
			Difficulty:       domain.DifficultyAdvanced,
			RealWorldExample: "Two people withdrawing from the same account at the same instant can both see a sufficient balance and overdraw it - unless the updates are serialized.",
		},
		{
			Name:             "Index",
			Definition:       "A database structure that trades extra storage and write cost for much faster lookups on the indexed columns.",
			Category:         "Databases",
			Difficulty:       domain.DifficultyBeginner,
			CodeExample:      code(`CREATE INDEX users_email_idx ON users (email);`),
			RealWorldExample: "A book's index lets you jump straight to a topic instead of reading every page; a database index does the same for rows.",
		},
		{
			Name:             "Transaction",
			Definition:       "A group of database operations that execute as one atomic unit: either all of them take effect or none do.",
			Category:         "Databases",
			Difficulty:       domain.DifficultyIntermediate,
			CodeExample: code(`BEGIN;
UPDATE accounts SET balance = balance - 100 WHERE id = 1;
UPDATE accounts SET balance = balance + 100 WHERE id = 2;
COMMIT;`),
			RealWorldExample: "A bank transfer debits one account and credits another; a transaction guarantees you never see the money leave without arriving.",
		},
		{
			Name:             "Normalization",
			Definition:       "Organizing relational data so each fact is stored exactly once, removing duplication and the update anomalies it causes.",
			Category:         "Databases",
			Difficulty:       domain.DifficultyBeginner,
			RealWorldExample: "Storing a customer's address in one table and referencing it from orders means a move is one update, not a hunt through every order.",
		},
		{
			Name:             "Sharding",
			Definition:       "Splitting one logical dataset across multiple database instances, each holding a subset of rows, to scale beyond a single machine.",
			Category:         "Databases",
			Difficulty:       domain.DifficultyAdvanced,
			RealWorldExample: "A social network keeps users A-M on one cluster and N-Z on another; every query is routed to the shard that owns the row.",
		},
		{
			Name:       "Docker",
			Definition: "A platform that packages applications and their dependencies into isolated containers that run consistently across environments.",
			Category:   "DevOps",
			Difficulty: domain.DifficultyIntermediate,
			CodeExample: code(`FROM golang:1.22
WORKDIR /app
COPY . .
RUN go build -o server ./cmd
CMD ["./server"]`),
			RealWorldExample: "Docker is a shipping container for software: the same sealed box runs identically on a laptop and in production.",
		},
		{
			Name:             "CI/CD",
			Definition:       "Continuous Integration / Continuous Delivery - automatically building, testing, and shipping every change pushed to a repository.",
			Category:         "DevOps",
			Difficulty:       domain.DifficultyBeginner,
			RealWorldExample: "Merging a pull request triggers a pipeline that runs the tests and deploys the new version without anyone touching a server.",
		},
		{
			Name:             "Infrastructure as Code",
			Definition:       "Managing servers, networks, and services through declarative, version-controlled definitions instead of manual changes.",
			Category:         "DevOps",
			Difficulty:       domain.DifficultyIntermediate,
			RealWorldExample: "Rebuilding an entire environment after a region outage is one command when every resource is described in checked-in code.",
		},
		{
			Name:             "Kubernetes",
			Definition:       "A container orchestrator that schedules workloads across a cluster, restarts failed containers, and scales services up and down.",
			Category:         "DevOps",
			Difficulty:       domain.DifficultyAdvanced,
			RealWorldExample: "Like an air-traffic controller for containers, Kubernetes decides which machine runs each one and reroutes work when a node goes down.",
		},
		{
			Name:             "JWT",
			Definition:       "JSON Web Token - a compact, URL-safe token format for passing signed claims between parties, commonly used for authentication.",
			Category:         "Security",
			Difficulty:       domain.DifficultyIntermediate,
			CodeExample: code(`// header.payload.signature
const token = 'eyJhbGciOiJIUzI1NiJ9...';`),
			RealWorldExample: "After login the server hands you a JWT; like a concert wristband, it proves on every request that you were let in.",
		},
		{
			Name:             "Hashing",
			Definition:       "Transforming input into a fixed-size digest that is practical to compute but infeasible to reverse; identical inputs always produce identical digests.",
			Category:         "Security",
			Difficulty:       domain.DifficultyBeginner,
			RealWorldExample: "Websites store a hash of your password, not the password itself, so a stolen database does not reveal what you typed.",
		},
		{
			Name:             "OAuth",
			Definition:       "An authorization framework that lets a user grant one application limited access to their data in another application without sharing credentials.",
			Category:         "Security",
			Difficulty:       domain.DifficultyAdvanced,
			RealWorldExample: "\"Sign in with Google\" uses OAuth: the site never sees your Google password, only a scoped token Google issued on your behalf.",
		},
		{
			Name:             "Encryption",
			Definition:       "Encoding data so only holders of the right key can read it, protecting it in transit and at rest.",
			Category:         "Security",
			Difficulty:       domain.DifficultyBeginner,
			RealWorldExample: "The padlock in your browser means traffic to the site is encrypted; anyone intercepting it sees only ciphertext.",
		},
	}
}

func code(s string) *string {
	return &s
}
