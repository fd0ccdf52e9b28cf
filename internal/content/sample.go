package content

// SampleTopic is the topic of the built-in board
const SampleTopic = "general"

// SampleDocument returns the built-in general knowledge board
func SampleDocument() *Document {
	return &Document{
		Topic: SampleTopic,
		Categories: []CategoryDoc{
			{
				Name: "World Capitals",
				Clues: []ClueDoc{
					{Prompt: "This city on the Seine is the capital of France", Response: "What is Paris?"},
					{Prompt: "Canberra, not Sydney, is the capital of this country", Response: "What is Australia?"},
					{Prompt: "This capital of Canada sits on a river of the same name", Response: "What is Ottawa?"},
					{Prompt: "Capital of Kenya, its name comes from a Maasai phrase for cool water", Response: "What is Nairobi?"},
					{Prompt: "At about 3,600 meters, this Bolivian seat of government is the highest in the world", Response: "What is La Paz?"},
				},
			},
			{
				Name: "Science",
				Clues: []ClueDoc{
					{Prompt: "H2O is the chemical formula for this", Response: "What is water?"},
					{Prompt: "This planet is known as the Red Planet", Response: "What is Mars?"},
					{Prompt: "The powerhouse of the cell", Response: "What is the mitochondrion?"},
					{Prompt: "This element has the atomic number 1", Response: "What is hydrogen?"},
					{Prompt: "This physicist proposed the uncertainty principle in 1927", Response: "Who is Werner Heisenberg?"},
				},
			},
			{
				Name: "Literature",
				Clues: []ClueDoc{
					{Prompt: "He wrote Romeo and Juliet", Response: "Who is William Shakespeare?"},
					{Prompt: "Herman Melville's white whale", Response: "What is Moby-Dick?"},
					{Prompt: "George Orwell's novel set in the year 1984 has this title", Response: "What is Nineteen Eighty-Four?"},
					{Prompt: "Author of One Hundred Years of Solitude", Response: "Who is Gabriel Garcia Marquez?"},
					{Prompt: "This Russian novel opens: Happy families are all alike", Response: "What is Anna Karenina?"},
				},
			},
			{
				Name: "Tech",
				Clues: []ClueDoc{
					{Prompt: "The WWW in a web address stands for this", Response: "What is the World Wide Web?"},
					{Prompt: "This company makes the iPhone", Response: "What is Apple?"},
					{Prompt: "Eight of these make a byte", Response: "What are bits?"},
					{Prompt: "Linus Torvalds created this operating system kernel in 1991", Response: "What is Linux?"},
					{Prompt: "This language, designed at Google, has a gopher mascot", Response: "What is Go?"},
				},
			},
			{
				Name: "Animals",
				Clues: []ClueDoc{
					{Prompt: "The largest animal ever known to have lived", Response: "What is the blue whale?"},
					{Prompt: "A group of these birds is called a murder", Response: "What are crows?"},
					{Prompt: "This fastest land animal can top 100 km/h", Response: "What is the cheetah?"},
					{Prompt: "Koalas feed almost entirely on the leaves of this tree", Response: "What is the eucalyptus?"},
					{Prompt: "This egg-laying mammal of Australia has a duck-like bill", Response: "What is the platypus?"},
				},
			},
			{
				Name: "History",
				Clues: []ClueDoc{
					{Prompt: "The first President of the United States", Response: "Who is George Washington?"},
					{Prompt: "This wall fell in 1989", Response: "What is the Berlin Wall?"},
					{Prompt: "The ship that sank after hitting an iceberg in April 1912", Response: "What is the Titanic?"},
					{Prompt: "The Magna Carta was sealed by this English king in 1215", Response: "Who is King John?"},
					{Prompt: "This 1648 set of treaties ended the Thirty Years' War", Response: "What is the Peace of Westphalia?"},
				},
			},
		},
		Final: FinalDoc{
			Category: "Geography",
			Clue:     "This river, the longest in Africa, flows north into the Mediterranean Sea",
			Response: "What is the Nile?",
		},
	}
}
