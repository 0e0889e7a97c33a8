package delivery_graphql

const schemaSDL = `
schema {
	query: Query
	mutation: Mutation
}

type Creator {
	_id: ID!
	name: String!
}

type Post {
	_id: ID!
	title: String!
	content: String!
	imageUrl: String!
	creator: Creator
	createdAt: String!
	updatedAt: String!
}

type User {
	_id: ID!
	name: String!
	email: String!
	status: String!
	posts: [Post!]!
}

type AuthData {
	token: String!
	userId: String!
}

type PostData {
	posts: [Post!]!
	totalPosts: Int!
}

input UserInputData {
	email: String!
	name: String!
	password: String!
}

input PostInputData {
	title: String!
	content: String!
	imageUrl: String!
}

type Query {
	posts(page: Int): PostData!
	post(id: ID!): Post!
	user: User!
}

type Mutation {
	createUser(userInput: UserInputData!): User!
	login(email: String!, password: String!): AuthData!
	createPost(postInput: PostInputData!): Post!
	updatePost(id: ID!, postInput: PostInputData!): Post!
	deletePost(id: ID!): Boolean!
	updateStatus(status: String!): User!
}
`
